// internal/models/size_group.go
package models

import (
	"fmt"
	"sort"
	"strings"
)

// SizeGroup is a bucket of sizes sharing one bill of materials.
type SizeGroup string

const (
	SizeGroupRegular SizeGroup = "XS-S-M-L-XL"
	SizeGroupPlus    SizeGroup = "2XL-3XL"
	SizeGroupXL4     SizeGroup = "4XL"
)

// Declaration order is the canonical ordering, smallest sizes first.
var sizeGroups = []SizeGroup{SizeGroupRegular, SizeGroupPlus, SizeGroupXL4}

var sizeGroupLabels = map[SizeGroup]string{
	SizeGroupRegular: "XS, S, M, L, XL",
	SizeGroupPlus:    "2XL, 3XL",
	SizeGroupXL4:     "4XL",
}

func AllSizeGroups() []SizeGroup {
	out := make([]SizeGroup, len(sizeGroups))
	copy(out, sizeGroups)
	return out
}

// ParseSizeGroup accepts the exact tag, ignoring surrounding whitespace
// and letter case.
func ParseSizeGroup(s string) (SizeGroup, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, g := range sizeGroups {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown size group %q", s)
}

func (g SizeGroup) Valid() bool {
	_, ok := sizeGroupLabels[g]
	return ok
}

func (g SizeGroup) Label() string {
	if label, ok := sizeGroupLabels[g]; ok {
		return label
	}
	return string(g)
}

func (g SizeGroup) rank() int {
	for i, sg := range sizeGroups {
		if sg == g {
			return i
		}
	}
	return len(sizeGroups)
}

// SortSizeGroups orders groups by size, unknown tags last in lexical order.
func SortSizeGroups(groups []SizeGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		ri, rj := groups[i].rank(), groups[j].rank()
		if ri != rj {
			return ri < rj
		}
		return groups[i] < groups[j]
	})
}
