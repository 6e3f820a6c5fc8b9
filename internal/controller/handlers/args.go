package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/google/uuid"
)

// UsageError - команда вызвана с неверными аргументами
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Usage
}

// commandName извлекает имя команды: "/grant@lms_bot 1 2" -> "grant"
func commandName(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", false
	}

	name := strings.TrimPrefix(fields[0], "/")
	if i := strings.Index(name, "@"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "", false
	}
	return strings.ToLower(name), true
}

// commandArgs возвращает аргументы команды без самой команды
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}

// parsePositiveID разбирает положительный int64
func parsePositiveID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// parseID ожидает ровно один аргумент - ID
func parseID(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, &UsageError{Usage: usage}
	}
	id, err := parsePositiveID(args[0])
	if err != nil {
		return 0, &UsageError{Usage: usage}
	}
	return id, nil
}

// grantArgs - разобранные аргументы /grant
type grantArgs struct {
	PrincipalID int64
	Scope       model.Scope
	Days        int // 0 - бессрочно
}

// parseGrantArgs разбирает "/grant <user_id> program|subcourse <id> [days]"
func parseGrantArgs(args []string) (*grantArgs, error) {
	usageErr := &UsageError{Usage: UsageGrant}

	if len(args) != 3 && len(args) != 4 {
		return nil, usageErr
	}

	principalID, err := parsePositiveID(args[0])
	if err != nil {
		return nil, usageErr
	}

	targetID, err := parsePositiveID(args[2])
	if err != nil {
		return nil, usageErr
	}

	var scope model.Scope
	switch strings.ToLower(args[1]) {
	case "program", "программа":
		scope = model.ProgramScope{ProgramID: targetID}
	case "subcourse", "подкурс":
		scope = model.SubcourseScope{SubcourseID: targetID}
	default:
		return nil, usageErr
	}

	result := &grantArgs{PrincipalID: principalID, Scope: scope}

	if len(args) == 4 {
		days, err := strconv.Atoi(args[3])
		if err != nil || days <= 0 || days > MaxGrantDays {
			return nil, usageErr
		}
		result.Days = days
	}

	return result, nil
}

// parseUUIDs разбирает список ID доступов, хотя бы один
func parseUUIDs(args []string, usage string) ([]uuid.UUID, error) {
	if len(args) == 0 {
		return nil, &UsageError{Usage: usage}
	}

	ids := make([]uuid.UUID, 0, len(args))
	for _, arg := range args {
		id, err := uuid.Parse(strings.Trim(arg, ","))
		if err != nil {
			return nil, &UsageError{Usage: usage}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseCallbackID извлекает ID из callback data
// Например: "done:123" -> 123
func parseCallbackID(data, prefix string) (int64, error) {
	if !strings.HasPrefix(data, prefix) {
		return 0, fmt.Errorf("callback %q: %w", data, ErrInvalidData)
	}
	id, err := parsePositiveID(strings.TrimPrefix(data, prefix))
	if err != nil {
		return 0, fmt.Errorf("callback %q: %w", data, ErrInvalidData)
	}
	return id, nil
}
