// Package fsa содержит модель конечного автомата (NFA или DFA).
//
// Включает:
//   - fsa.go      — FSA: состояния, алфавит, переходы, старт, принимающие состояния
//   - setkey.go   — каноническое представление множества состояний
//   - closure.go  — ε-замыкание множества состояний
//   - accepts.go  — прогон слова через автомат
//   - snapshot.go — структурный снимок (nodes + fsa) для импорта/экспорта
//   - format.go   — кодирование снимков в JSON, YAML и HCL
//   - presets.go  — встроенные примеры NFA
//
// Пакет не выполняет ввод-вывод сам по себе: чтение и запись файлов
// остаются на стороне вызывающего кода.
package fsa
