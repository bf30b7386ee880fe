// internal/enrich/techniques.go
package enrich

import "strings"

// tagTechniques is the closed tag-to-ATT&CK mapping. Keys are matched
// case-insensitively against indicator tags.
var tagTechniques = map[string][]string{
	"c2":                  {"T1071 - Application Layer Protocol"},
	"command-and-control": {"T1071 - Application Layer Protocol"},
	"ransomware":          {"T1486 - Data Encrypted for Impact", "T1490 - Inhibit System Recovery"},
	"phishing":            {"T1566 - Phishing"},
	"credential-theft":    {"T1555 - Credentials from Password Stores"},
	"botnet":              {"T1584 - Compromise Infrastructure"},
	"exploit":             {"T1190 - Exploit Public-Facing Application"},
	"backdoor":            {"T1505 - Server Software Component"},
	"trojan":              {"T1204 - User Execution"},
	"rat":                 {"T1219 - Remote Access Software"},
	"apt":                 {"T1071 - Application Layer Protocol"},
}

// TechniquesForTags derives ATT&CK techniques from indicator tags,
// preserving first-seen order and dropping duplicates.
func TechniquesForTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tag := range tags {
		for _, technique := range tagTechniques[strings.ToLower(tag)] {
			if !seen[technique] {
				seen[technique] = true
				out = append(out, technique)
			}
		}
	}
	return out
}
