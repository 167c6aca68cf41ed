// Package cli реализует инструмент командной строки nfa2dfa.
//
// # Обзор
//
// Команды делятся на две группы:
//   - локальные (convert, preset) строят DFA прямо в процессе CLI,
//     API для них не нужен;
//   - удалённые (automaton, session) работают с nfa2dfa API через HTTP
//     и не импортируют internal/api.
//
// Команда watch читает события сессий и построений из RabbitMQ.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для nfa2dfa API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	sessions, err := client.ListSessions()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: nfa2dfa convert --preset sipser --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - convert: локальное построение с --trace, --animate, --out
//   - preset: list, show
//   - automaton: list, create, show, update, delete, convert, conversions
//   - session: list, create, show, steps, step, complete, play, stop, toggle, reset, delete
//   - watch: поток событий из брокера
//
// Каждая группа создаётся через фабричную функцию (NewSessionCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
