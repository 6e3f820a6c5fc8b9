package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// parseTime принимает YYYY-MM-DD (полночь UTC) или RFC3339
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (use YYYY-MM-DD or RFC3339): %w", s, err)
	}
	return t.UTC(), nil
}

// parseOptionalTime: пустая строка - нет значения
func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseUntil: "never" снимает ограничение срока
func parseUntil(s string) (*time.Time, error) {
	if strings.EqualFold(s, "never") {
		return nil, nil
	}
	return parseOptionalTime(s)
}

// scopeFromFlags: 0 означает, что флаг не задан
func scopeFromFlags(programID, subcourseID int64) (model.Scope, error) {
	var program, subcourse *int64
	if programID != 0 {
		program = &programID
	}
	if subcourseID != 0 {
		subcourse = &subcourseID
	}
	scope, err := model.NewScope(program, subcourse)
	if err != nil {
		return nil, fmt.Errorf("exactly one of --program or --subcourse is required: %w", err)
	}
	return scope, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseGrantIDs(args []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(args))
	for _, arg := range args {
		id, err := uuid.Parse(strings.Trim(arg, ","))
		if err != nil {
			return nil, fmt.Errorf("invalid grant id %q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseGrantStatus(s string) (model.GrantStatus, error) {
	status := model.GrantStatus(strings.ToLower(s))
	if !status.IsValid() {
		return "", fmt.Errorf("grant status %q (active, expired, revoked): %w", s, model.ErrInvalidStatus)
	}
	return status, nil
}

func parseKind(s string) (model.ContentKind, error) {
	kind := model.ContentKind(strings.ToLower(s))
	switch kind {
	case model.KindProgram, model.KindSubcourse, model.KindLesson:
		return kind, nil
	}
	return "", fmt.Errorf("unknown content kind %q (program, subcourse, lesson)", s)
}

func formatScope(g *model.AccessGrant) string {
	if id, ok := g.ProgramID(); ok {
		return fmt.Sprintf("program:%d", id)
	}
	if id, ok := g.SubcourseID(); ok {
		return fmt.Sprintf("subcourse:%d", id)
	}
	return "-"
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatUntil(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return formatTime(*t)
}
