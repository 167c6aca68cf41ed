package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// PresetResponse — встроенный пример из API.
type PresetResponse struct {
	Name     string          `json:"name"`
	States   int             `json:"states"`
	Alphabet []string        `json:"alphabet"`
	Snapshot json.RawMessage `json:"snapshot,omitempty"`
}

// AutomatonResponse — сохранённый NFA из API.
type AutomatonResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	States      int             `json:"states"`
	Alphabet    []string        `json:"alphabet"`
	Snapshot    json.RawMessage `json:"snapshot,omitempty"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// StepSummary — шаг построения из API.
type StepSummary struct {
	Index       int      `json:"index"`
	From        string   `json:"from"`
	Symbol      string   `json:"symbol"`
	To          string   `json:"to,omitempty"`
	Target      []string `json:"target"`
	Created     bool     `json:"created"`
	Accepting   bool     `json:"accepting"`
	Description string   `json:"description"`
}

// ConversionResponse — построение из API.
type ConversionResponse struct {
	ID          string          `json:"id"`
	AutomatonID string          `json:"automaton_id"`
	Labels      string          `json:"labels"`
	Status      string          `json:"status"`
	DFA         json.RawMessage `json:"dfa,omitempty"`
	Steps       int             `json:"steps"`
	States      int             `json:"states"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   string          `json:"created_at"`
	Trace       []StepSummary   `json:"trace,omitempty"`
}

// SessionResponse — состояние сессии из API.
type SessionResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name,omitempty"`
	AutomatonID string          `json:"automaton_id,omitempty"`
	Labels      string          `json:"labels"`
	IntervalMs  int64           `json:"interval_ms"`
	Status      string          `json:"status"`
	Complete    bool            `json:"complete"`
	Error       string          `json:"error,omitempty"`
	Pending     int             `json:"pending"`
	StepCount   int             `json:"step_count"`
	LastStep    *StepSummary    `json:"last_step,omitempty"`
	DFA         json.RawMessage `json:"dfa,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

// StepResult — ответ на один шаг сессии.
type StepResult struct {
	Step    *StepSummary    `json:"step"`
	Session SessionResponse `json:"session"`
}

// CompleteResult — ответ на выполнение оставшихся шагов.
type CompleteResult struct {
	Steps   []StepSummary   `json:"steps"`
	Session SessionResponse `json:"session"`
}

// --- Request types ---

// SourceRequest — NFA в запросе: текст файла или имя примера.
type SourceRequest struct {
	Source string `json:"source,omitempty"`
	Format string `json:"format,omitempty"`
	Preset string `json:"preset,omitempty"`
}

// CreateAutomatonRequest — сохранение NFA.
type CreateAutomatonRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SourceRequest
}

// UpdateAutomatonRequest — изменение NFA.
type UpdateAutomatonRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	SourceRequest
}

// CreateConversionRequest — полное построение DFA на сервере.
type CreateConversionRequest struct {
	Labels string `json:"labels,omitempty"`
	Trace  bool   `json:"trace,omitempty"`
}

// CreateSessionRequest — открытие сессии.
type CreateSessionRequest struct {
	Name        string `json:"name,omitempty"`
	AutomatonID string `json:"automaton_id,omitempty"`
	Labels      string `json:"labels,omitempty"`
	IntervalMs  int64  `json:"interval_ms,omitempty"`
	SourceRequest
}

// ListConversionsOpts — параметры фильтрации построений.
type ListConversionsOpts struct {
	Status string
	Limit  int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для nfa2dfa API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Presets ---

// ListPresets возвращает встроенные примеры.
func (c *Client) ListPresets() ([]PresetResponse, error) {
	var presets []PresetResponse
	err := c.list("/api/v1/presets", nil, &presets)
	return presets, err
}

// --- Automata ---

// ListAutomata возвращает сохранённые автоматы.
func (c *Client) ListAutomata() ([]AutomatonResponse, error) {
	var automata []AutomatonResponse
	err := c.list("/api/v1/automata", nil, &automata)
	return automata, err
}

// CreateAutomaton сохраняет NFA.
func (c *Client) CreateAutomaton(req CreateAutomatonRequest) (*AutomatonResponse, error) {
	var automaton AutomatonResponse
	err := c.post("/api/v1/automata", req, &automaton)
	return &automaton, err
}

// GetAutomaton возвращает автомат по ID.
func (c *Client) GetAutomaton(id string) (*AutomatonResponse, error) {
	var automaton AutomatonResponse
	err := c.get("/api/v1/automata/"+id, &automaton)
	return &automaton, err
}

// UpdateAutomaton обновляет автомат.
func (c *Client) UpdateAutomaton(id string, req UpdateAutomatonRequest) (*AutomatonResponse, error) {
	var automaton AutomatonResponse
	err := c.put("/api/v1/automata/"+id, req, &automaton)
	return &automaton, err
}

// DeleteAutomaton удаляет автомат.
func (c *Client) DeleteAutomaton(id string) error {
	return c.delete("/api/v1/automata/" + id)
}

// --- Conversions ---

// ListConversions возвращает построения автомата.
func (c *Client) ListConversions(automatonID string, opts ListConversionsOpts) ([]ConversionResponse, error) {
	params := url.Values{}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}

	var conversions []ConversionResponse
	err := c.list("/api/v1/automata/"+automatonID+"/conversions", params, &conversions)
	return conversions, err
}

// CreateConversion строит DFA на сервере.
func (c *Client) CreateConversion(automatonID string, req CreateConversionRequest) (*ConversionResponse, error) {
	var conversion ConversionResponse
	err := c.post("/api/v1/automata/"+automatonID+"/conversions", req, &conversion)
	return &conversion, err
}

// GetConversion возвращает построение по ID.
func (c *Client) GetConversion(id string) (*ConversionResponse, error) {
	var conversion ConversionResponse
	err := c.get("/api/v1/conversions/"+id, &conversion)
	return &conversion, err
}

// --- Sessions ---

// ListSessions возвращает открытые сессии.
func (c *Client) ListSessions() ([]SessionResponse, error) {
	var sessions []SessionResponse
	err := c.list("/api/v1/sessions", nil, &sessions)
	return sessions, err
}

// CreateSession открывает сессию.
func (c *Client) CreateSession(req CreateSessionRequest) (*SessionResponse, error) {
	var s SessionResponse
	err := c.post("/api/v1/sessions", req, &s)
	return &s, err
}

// GetSession возвращает состояние сессии.
func (c *Client) GetSession(id string) (*SessionResponse, error) {
	var s SessionResponse
	err := c.get("/api/v1/sessions/"+id, &s)
	return &s, err
}

// DeleteSession закрывает сессию.
func (c *Client) DeleteSession(id string) error {
	return c.delete("/api/v1/sessions/" + id)
}

// ListSessionSteps возвращает журнал шагов начиная с offset.
func (c *Client) ListSessionSteps(id string, offset int) ([]StepSummary, error) {
	params := url.Values{}
	if offset > 0 {
		params.Set("offset", fmt.Sprintf("%d", offset))
	}

	var steps []StepSummary
	err := c.list("/api/v1/sessions/"+id+"/steps", params, &steps)
	return steps, err
}

// StepSession выполняет один шаг.
func (c *Client) StepSession(id string) (*StepResult, error) {
	var result StepResult
	err := c.post("/api/v1/sessions/"+id+"/step", nil, &result)
	return &result, err
}

// CompleteSession выполняет все оставшиеся шаги.
func (c *Client) CompleteSession(id string) (*CompleteResult, error) {
	var result CompleteResult
	err := c.post("/api/v1/sessions/"+id+"/complete", nil, &result)
	return &result, err
}

// SessionAction вызывает play, stop, toggle или reset.
func (c *Client) SessionAction(id, action string) (*SessionResponse, error) {
	var s SessionResponse
	err := c.post("/api/v1/sessions/"+id+"/"+action, nil, &s)
	return &s, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body any, result any) error {
	return c.doData(http.MethodPut, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
