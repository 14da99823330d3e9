package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]string{key: "must be numeric"})
	}
	if value < min || value > max {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "query parameter %q out of range", key).WithDetails(map[string]string{key: fmt.Sprintf("must be between %d and %d", min, max)})
	}
	return value, nil
}

// SanitizeString trims whitespace and cuts the result to at most maxRunes
// characters. A maxRunes of zero leaves the length alone.
func SanitizeString(input string, maxRunes int) string {
	trimmed := strings.TrimSpace(input)
	if maxRunes <= 0 || utf8.RuneCountInString(trimmed) <= maxRunes {
		return trimmed
	}
	return strings.TrimSpace(string([]rune(trimmed)[:maxRunes]))
}
