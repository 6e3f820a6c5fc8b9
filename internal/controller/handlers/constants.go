package handlers

// Подсказки по использованию команд
const (
	UsageLessons  = "/lessons <id подкурса>"
	UsageLesson   = "/lesson <id урока>"
	UsageDone     = "/done <id урока>"
	UsageProgress = "/progress <id подкурса>"

	UsageGrant    = "/grant <id пользователя> program|subcourse <id> [дней]"
	UsageGrants   = "/grants <id пользователя>"
	UsageActivate = "/activate <id доступа> [<id доступа> ...]"
	UsageRevoke   = "/revoke <id доступа> [<id доступа> ...]"
)

// Ограничения
const (
	// Максимальный срок доступа, выдаваемого из бота (в днях)
	MaxGrantDays = 3650

	// Длина текста урока в одном сообщении (лимит Telegram - 4096)
	MaxLessonTextLength = 3500
)
