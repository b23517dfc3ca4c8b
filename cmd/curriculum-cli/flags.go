package main

import "strings"

// stringSlice 收集可重复的 -c key=value 覆盖项。
type stringSlice []string

func (s *stringSlice) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSlice) Set(v string) error {
	*s = append(*s, v)
	return nil
}
