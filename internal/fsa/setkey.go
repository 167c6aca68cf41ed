package fsa

import (
	"slices"
	"strconv"
	"strings"
)

// Canonical возвращает отсортированную копию меток без дубликатов.
// Исходный срез не изменяется.
func Canonical(labels []string) []string {
	out := slices.Clone(labels)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = make([]string, 0)
	}
	return out
}

// Key возвращает ключ множества меток, не зависящий от порядка и повторов.
//
// Каждая метка кодируется как "<длина>:<метка>", поэтому метки,
// содержащие запятые или скобки, не могут дать одинаковый ключ
// для разных множеств.
func Key(labels []string) string {
	var b strings.Builder
	for _, label := range Canonical(labels) {
		b.WriteString(strconv.Itoa(len(label)))
		b.WriteByte(':')
		b.WriteString(label)
	}
	return b.String()
}

// SetLabel возвращает отображаемую метку множества, например "{1,3}".
// Пустое множество отображается как "∅".
func SetLabel(labels []string) string {
	c := Canonical(labels)
	if len(c) == 0 {
		return "∅"
	}
	return "{" + strings.Join(c, ",") + "}"
}

// Intersects проверяет, есть ли у двух множеств общий элемент.
func Intersects(a, b []string) bool {
	for _, x := range a {
		if slices.Contains(b, x) {
			return true
		}
	}
	return false
}
