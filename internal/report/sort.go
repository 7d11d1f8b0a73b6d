package report

import (
	"sort"
	"strings"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByKey    SortOrder = "key"
	SortByName   SortOrder = "name"
	SortByEmails SortOrder = "emails"
)

// Sort orders contacts in place. Unknown orders leave the slice as is.
func Sort(contacts []Contact, order SortOrder) {
	switch SortOrder(strings.ToLower(string(order))) {
	case SortByKey:
		sort.SliceStable(contacts, func(i, j int) bool {
			return contacts[i].Key < contacts[j].Key
		})
	case SortByName:
		sort.SliceStable(contacts, func(i, j int) bool {
			return compareByName(contacts[i], contacts[j])
		})
	case SortByEmails:
		sort.SliceStable(contacts, func(i, j int) bool {
			if len(contacts[i].Emails) != len(contacts[j].Emails) {
				// Most emails first
				return len(contacts[i].Emails) > len(contacts[j].Emails)
			}
			return compareByName(contacts[i], contacts[j])
		})
	}
}

// compareByName compares two contacts by case-folded name, then key
func compareByName(i, j Contact) bool {
	ni, nj := strings.ToLower(i.Name), strings.ToLower(j.Name)
	if ni != nj {
		return ni < nj
	}
	return i.Key < j.Key
}
