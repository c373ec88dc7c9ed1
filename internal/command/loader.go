package command

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/keshon/server-herald/internal/storage"
)

const customDescription = "Custom command."

// ParseCustom builds custom commands from name;template;img1,img2,...;isAdmin
// lines. Malformed lines are skipped with a warning; blank lines are ignored.
func ParseCustom(lines []storage.Line, trigger string, log *zap.Logger) []*Command {
	if log == nil {
		log = zap.NewNop()
	}

	var out []*Command
	for _, line := range lines {
		if strings.TrimSpace(line.Text) == "" {
			continue
		}
		fields := strings.Split(line.Text, ";")
		if len(fields) != 4 {
			log.Warn("Invalid number of semicolon separated fields",
				zap.Int("line", line.No),
				zap.Int("fields", len(fields)),
			)
			continue
		}

		name, text := fields[0], fields[1]
		if name == "" {
			log.Warn("Command name must not be empty", zap.Int("line", line.No))
			continue
		}

		params := CountParams(text)
		out = append(out, &Command{
			Name:        name,
			Description: customDescription,
			Syntax:      CustomSyntax(trigger, name, params),
			AdminOnly:   parseAdmin(fields[3]),
			Kind:        Custom,
			Template: &Template{
				Text:       text,
				ParamCount: params,
				Images:     splitImages(fields[2]),
			},
		})
	}

	if len(out) == 0 {
		log.Warn("No valid custom commands found")
	}
	return out
}

// parseAdmin accepts true/false in any case; anything else restricts the command.
func parseAdmin(s string) bool {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, "true"):
		return true
	case strings.EqualFold(s, "false"):
		return false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return true
	}
	return v
}

func splitImages(s string) []string {
	var out []string
	for _, u := range strings.Split(s, ",") {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
