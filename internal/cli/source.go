package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shaiso/nfa2dfa/internal/fsa"
)

// errSource — NFA задан не ровно одним способом.
var errSource = errors.New("exactly one of FILE or --preset is required")

// sourceFlags — общие флаги команд, принимающих NFA.
type sourceFlags struct {
	preset string
	format string
}

// read возвращает текст файла и его формат. path "-" — stdin,
// тогда формат по умолчанию json.
func (f sourceFlags) read(path string) ([]byte, fsa.Format, error) {
	format, err := f.resolveFormat(path)
	if err != nil {
		return nil, "", err
	}

	var data []byte
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return data, format, nil
}

func (f sourceFlags) resolveFormat(path string) (fsa.Format, error) {
	if f.format != "" {
		return fsa.ParseFormat(f.format)
	}
	if path == "-" {
		return fsa.FormatJSON, nil
	}
	return fsa.FormatFromPath(path)
}

// snapshot загружает NFA локально: из файла или встроенного примера.
func (f sourceFlags) snapshot(args []string) (*fsa.Snapshot, error) {
	if (len(args) == 1) == (f.preset != "") {
		return nil, errSource
	}

	if f.preset != "" {
		return fsa.Preset(f.preset)
	}

	data, format, err := f.read(args[0])
	if err != nil {
		return nil, err
	}
	return fsa.DecodeSnapshot(data, format, args[0])
}

// request готовит NFA для отправки в API.
func (f sourceFlags) request(args []string) (SourceRequest, error) {
	if (len(args) == 1) == (f.preset != "") {
		return SourceRequest{}, errSource
	}

	if f.preset != "" {
		return SourceRequest{Preset: f.preset}, nil
	}

	data, format, err := f.read(args[0])
	if err != nil {
		return SourceRequest{}, err
	}
	return SourceRequest{Source: string(data), Format: string(format)}, nil
}

// writeSnapshot сохраняет снимок; формат по расширению, если не задан.
func writeSnapshot(path, format string, snap *fsa.Snapshot) error {
	var (
		f   fsa.Format
		err error
	)
	if format != "" {
		f, err = fsa.ParseFormat(format)
	} else {
		f, err = fsa.FormatFromPath(path)
	}
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := fsa.EncodeSnapshot(file, snap, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
