package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/Mirzamurod/flowers-backend/internal/helper"
)

// Handler reacts to inbound conversational events on an open session. It is
// stateless; the vendor is identified through the session itself.
type Handler struct {
	// WebAppBaseURL is the catalog web-app root. The tenant-scoped order
	// view lives at {WebAppBaseURL}/orders/{tenantID}.
	WebAppBaseURL string
}

// Handle dispatches one inbound event. Nothing it does may kill the session
// or the process; every send failure is logged and skipped.
func (h *Handler) Handle(ctx context.Context, s *Session, ev Event) {
	switch e := ev.(type) {
	case StartCommand:
		h.handleStart(ctx, s, e)
	case ContactShared:
		h.handleContact(ctx, s, e)
	case OrderSubmitted:
		h.handleOrder(ctx, s, e)
	}
}

func (h *Handler) handleStart(ctx context.Context, s *Session, e StartCommand) {
	if err := s.SendMessage(ctx, e.ChatID, "Flowers platformasiga xush kelibsiz.", nil); err != nil {
		log.Printf("bot: send welcome (tenant %d): %v", s.TenantID, err)
	}

	opts := &SendOptions{
		Keyboard: [][]Button{
			{{Text: "📲 Kontaktni jo'natish", RequestContact: true}},
		},
		OneTimeKeyboard: true,
		ResizeKeyboard:  true,
	}
	if err := s.SendMessage(ctx, e.ChatID, "Buket zakat qilishdan oldin telefon raqamingizni jo'nating:", opts); err != nil {
		log.Printf("bot: send contact prompt (tenant %d): %v", s.TenantID, err)
	}
}

func (h *Handler) handleContact(ctx context.Context, s *Session, e ContactShared) {
	text := fmt.Sprintf(
		"✅ Raqamingiz qabul qilindi: %s. Buketlarni ko'rish knopkasini bosib buket va gullarni ko'rishingiz mumkin",
		e.Phone,
	)
	opts := &SendOptions{
		Keyboard: [][]Button{
			{{
				Text:      "Buketlarni ko'rish",
				WebAppURL: fmt.Sprintf("%s/orders/%d", h.WebAppBaseURL, s.TenantID),
			}},
		},
		ResizeKeyboard: true,
	}
	if err := s.SendMessage(ctx, e.ChatID, text, opts); err != nil {
		log.Printf("bot: send contact ack (tenant %d): %v", s.TenantID, err)
	}
}

func (h *Handler) handleOrder(ctx context.Context, s *Session, e OrderSubmitted) {
	payload, err := ParseOrderPayload(e.Data)
	if err != nil {
		// Malformed payload is dropped; the session stays open.
		log.Printf("bot: tenant %d: %v", s.TenantID, err)
		return
	}

	if err := s.SendMessage(ctx, e.ChatID, "Zakazingiz qabul qilindi, siz zakaz bergan buketlar ro'yxati:", nil); err != nil {
		log.Printf("bot: send order confirmation (tenant %d): %v", s.TenantID, err)
	}

	h.sendItems(ctx, s, e.ChatID, payload.Bouquets)
	h.sendItems(ctx, s, e.ChatID, payload.Flowers)
}

// sendItems sends one captioned photo per item. A failed send must not stop
// the remaining items.
func (h *Handler) sendItems(ctx context.Context, s *Session, chatID int64, items []OrderItem) {
	for _, item := range items {
		if err := s.SendPhoto(ctx, chatID, item.Image, helper.FormatSum(item.Price)); err != nil {
			log.Printf("bot: send order photo %s (tenant %d): %v", item.Image, s.TenantID, err)
		}
	}
}
