package model

import "strings"

// Multi-value answers (checkbox and multiselect groups) are stored inside the
// single answer string, joined with commas. The codec is lossy for option
// labels that themselves contain commas; option labels are expected not to.

func JoinSelections(selected []string) string {
	return strings.Join(selected, ",")
}

func SplitSelections(answer string) []string {
	if answer == "" {
		return nil
	}
	return strings.Split(answer, ",")
}
