package label

import (
	"regexp"
	"strings"
)

// Commands that can delete printer storage, rewrite network configuration, or
// execute stored formats. Templates carrying any of these are rejected.
var dangerousCommands = []string{
	"^ID", // image delete
	"^DF", // download format to flash
	"^XF", // recall stored format
	"~DY", // download graphics/fonts
	"~DG", // download graphic
	"~DN", // delete network config
	"~NC", // set network config
	"~NR", // network reset
	"~JR", // power off after print
	"~PS", // print start toggle
	"~PP", // programmable pause
	"~HS", // host status return
	"^HH", // print configuration label
	"~WC", // print configuration label
	"^JU", // configuration update
	"~JC", // set clock
	"~RO", // reset advanced counter
}

var (
	dangerousDetect   *regexp.Regexp
	dangerousSanitize *regexp.Regexp
	fieldSpecial      = regexp.MustCompile(`[\^~\x00-\x1f]`)
)

func init() {
	quoted := make([]string, len(dangerousCommands))
	for i, cmd := range dangerousCommands {
		quoted[i] = regexp.QuoteMeta(cmd)
	}
	alternation := strings.Join(quoted, "|")
	dangerousDetect = regexp.MustCompile(`(?i)(` + alternation + `)`)
	// A command plus its parameters runs until the next ^ or ~ prefix.
	dangerousSanitize = regexp.MustCompile(`(?i)(` + alternation + `)[^\^~]*`)
}

// ValidateTemplate reports whether a template is free of dangerous commands,
// returning the distinct offending commands in order of first appearance.
func ValidateTemplate(template string) (bool, []string) {
	matches := dangerousDetect.FindAllString(strings.ToUpper(template), -1)
	seen := make(map[string]struct{}, len(matches))
	var found []string
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		found = append(found, m)
	}
	return len(found) == 0, found
}

// SanitizeTemplate removes dangerous commands together with their parameters.
func SanitizeTemplate(template string) string {
	return dangerousSanitize.ReplaceAllString(template, "")
}

// SanitizeField strips control characters and the ZPL command prefixes from
// field data. A positive maxLength truncates with a trailing ellipsis.
func SanitizeField(value string, maxLength int) string {
	value = fieldSpecial.ReplaceAllString(value, "")
	if maxLength > 3 && len(value) > maxLength {
		value = value[:maxLength-3] + "..."
	}
	return value
}
