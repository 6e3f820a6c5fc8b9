package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/Freeeeeet/lms_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleGrant обрабатывает команду /grant <user_id> program|subcourse <id> [days]
func (h *Handlers) HandleGrant(ctx context.Context, b *bot.Bot, update *models.Update) {
	admin, ok := h.requireAdmin(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args, err := parseGrantArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.reportError(ctx, b, chatID, admin, err, "Invalid grant arguments")
		return
	}

	input := service.CreateGrantInput{
		PrincipalID: args.PrincipalID,
		Scope:       args.Scope,
		GrantedBy:   &admin.ID,
		Notes:       fmt.Sprintf("выдан в боте администратором #%d", admin.ID),
	}
	if args.Days > 0 {
		until := h.clock().AddDate(0, 0, args.Days)
		input.ValidUntil = &until
	}

	grant, err := h.grantService.CreateGrant(ctx, input)
	if err != nil {
		h.reportError(ctx, b, chatID, admin, err, "Failed to create grant")
		return
	}

	h.logger.Info("Grant issued via bot",
		zap.Int64("admin_id", admin.ID),
		zap.String("grant_id", grant.ID.String()),
	)

	h.sendMessage(ctx, b, chatID, "✅ Доступ выдан\n\n"+formatGrant(grant, h.clock()), nil)
}

// HandleGrants обрабатывает команду /grants <user_id>
func (h *Handlers) HandleGrants(ctx context.Context, b *bot.Bot, update *models.Update) {
	admin, ok := h.requireAdmin(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	principalID, err := parseID(commandArgs(update.Message.Text), UsageGrants)
	if err != nil {
		h.reportError(ctx, b, chatID, admin, err, "Invalid grants arguments")
		return
	}

	grants, err := h.grantService.ListGrants(ctx, principalID)
	if err != nil {
		h.reportError(ctx, b, chatID, admin, err, "Failed to list grants")
		return
	}

	h.sendMessage(ctx, b, chatID, buildGrantsScreen(principalID, grants, h.clock()), nil)
}

// HandleActivate обрабатывает команду /activate <grant_id>...
func (h *Handlers) HandleActivate(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleBulkStatus(ctx, b, update, model.GrantActive, UsageActivate)
}

// HandleRevoke обрабатывает команду /revoke <grant_id>...
func (h *Handlers) HandleRevoke(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleBulkStatus(ctx, b, update, model.GrantRevoked, UsageRevoke)
}

func (h *Handlers) handleBulkStatus(ctx context.Context, b *bot.Bot, update *models.Update, status model.GrantStatus, usage string) {
	admin, ok := h.requireAdmin(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	ids, err := parseUUIDs(commandArgs(update.Message.Text), usage)
	if err != nil {
		h.reportError(ctx, b, chatID, admin, err, "Invalid grant ids")
		return
	}

	var affected int64
	if status == model.GrantRevoked {
		affected, err = h.grantService.BulkRevoke(ctx, ids)
	} else {
		affected, err = h.grantService.BulkActivate(ctx, ids)
	}
	if err != nil {
		h.reportError(ctx, b, chatID, admin, err, "Failed to update grants")
		return
	}

	h.logger.Info("Grant statuses changed via bot",
		zap.Int64("admin_id", admin.ID),
		zap.String("status", string(status)),
		zap.Strings("grant_ids", idsString(ids)),
		zap.Int64("affected", affected),
	)

	h.sendMessage(ctx, b, chatID, bulkResultText(status, affected, len(ids)), nil)
}

// HandleSweep обрабатывает команду /sweep
func (h *Handlers) HandleSweep(ctx context.Context, b *bot.Bot, update *models.Update) {
	admin, ok := h.requireAdmin(ctx, b, update)
	if !ok {
		return
	}

	count, err := h.grantService.SweepExpired(ctx)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, admin, err, "Failed to sweep grants")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("⌛️ Помечено истёкшими: %d", count), nil)
}

func bulkResultText(status model.GrantStatus, affected int64, requested int) string {
	verb := "Активировано"
	if status == model.GrantRevoked {
		verb = "Отозвано"
	}

	text := fmt.Sprintf("✅ %s: %d из %d", verb, affected, requested)
	if skipped := int64(requested) - affected; skipped > 0 {
		text += fmt.Sprintf("\nНе найдено: %d", skipped)
	}
	return text
}

// idsString - ID доступов строками для логов
func idsString(ids []uuid.UUID) []string {
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		result = append(result, id.String())
	}
	return result
}
