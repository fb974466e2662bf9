// Package cards ties the record store and the renderer together into the
// operations a front end performs on set cards.
//
// Rendering is a hard failure; recording a freshly generated card is best
// effort. A card whose history row could not be written is still returned
// to the caller, and the failure is logged.
package cards

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

// Store is the record store surface the service uses.
type Store interface {
	CreateCard(ctx context.Context, card *types.Card) (string, error)
	SaveLineItems(ctx context.Context, cardID string, lines []types.Line) error
	GetCard(ctx context.Context, id string) (*types.Card, error)
	CardLineItems(ctx context.Context, cardID string) ([]*types.LineItem, error)
	QueryCards(ctx context.Context, f types.Filter) ([]*types.Card, error)
	QueryLineItems(ctx context.Context, f types.Filter) ([]*types.LineItem, error)
	AddLineItem(ctx context.Context, cardID string, line types.Line, set types.DiameterSet) (bool, error)
	UpdateLineItemStatus(ctx context.Context, itemID int64, status string) error
	DeleteCard(ctx context.Context, id string) error
	DeleteLineItem(ctx context.Context, itemID int64) error
}

// Renderer produces the printable documents.
type Renderer interface {
	RenderCard(card types.Card, lines []types.Line) ([]byte, error)
	RenderLabel(setName string, stoneCount int, cardID string) ([]byte, error)
}

// CardRequest is a submitted card: header plus stones in entry order.
// An empty ID gets a generated one; a zero Set means DefaultDiameterSet.
type CardRequest struct {
	ID        string
	Machine   string
	Set       types.DiameterSet
	Operator  string
	StoneType string
	Lines     []types.Line
}

// LabelRequest asks for an adhesive label.
type LabelRequest struct {
	ID         string
	Set        types.DiameterSet
	StoneCount int
}

// Result is a rendered document and the card it belongs to.
type Result struct {
	CardID string
	PDF    []byte
	// Recorded is false when the card could not be written to the store.
	Recorded bool
}

// SearchResult holds the cards and stones matching one filter.
type SearchResult struct {
	Cards []*types.Card
	Items []*types.LineItem
}

// Service performs card operations against a store and a renderer.
type Service struct {
	store    Store
	renderer Renderer
	logger   *zap.Logger
	newID    func() string
}

// NewService creates a Service. A nil logger discards log output.
func NewService(store Store, renderer Renderer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, renderer: renderer, logger: logger, newID: types.NewCardID}
}

// Generate renders the card for req and then records it. Render failures
// are returned; store failures are logged and reported through
// Result.Recorded.
func (s *Service) Generate(ctx context.Context, req CardRequest) (*Result, error) {
	set, err := resolveSet(req.Set)
	if err != nil {
		return nil, err
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = s.newID()
	}
	stoneType := strings.TrimSpace(req.StoneType)
	if stoneType == "" {
		stoneType = types.DefaultStoneType
	}

	card := types.Card{
		ID:        id,
		Machine:   req.Machine,
		Set:       set,
		Operator:  req.Operator,
		StoneType: stoneType,
	}
	lines := types.NormalizeLines(req.Lines)
	pdf, err := s.renderer.RenderCard(card, lines)
	if err != nil {
		return nil, err
	}

	res := &Result{CardID: id, PDF: pdf, Recorded: true}
	if _, err := s.store.CreateCard(ctx, &card); err != nil {
		res.Recorded = false
		s.logger.Warn("card history not recorded", zap.String("card_id", id), zap.Error(err))
	}
	if err := s.store.SaveLineItems(ctx, id, lines); err != nil {
		res.Recorded = false
		s.logger.Warn("card stones not recorded", zap.String("card_id", id), zap.Int("stones", len(lines)), zap.Error(err))
	}

	s.logger.Info("card generated",
		zap.String("card_id", id),
		zap.String("set", set.String()),
		zap.Int("stones", types.StoneCount(lines)),
		zap.Bool("recorded", res.Recorded),
	)
	return res, nil
}

// Regenerate renders a stored card again from its history row and current
// stones. Returns types.ErrNotFound when no card has exactly that id.
func (s *Service) Regenerate(ctx context.Context, id string) (*Result, error) {
	card, err := s.store.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.store.CardLineItems(ctx, card.ID)
	if err != nil {
		return nil, err
	}
	lines := make([]types.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, it.Line())
	}

	pdf, err := s.renderer.RenderCard(*card, lines)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("card regenerated", zap.String("card_id", card.ID), zap.Int("stones", len(lines)))
	return &Result{CardID: card.ID, PDF: pdf, Recorded: true}, nil
}

// Label renders an adhesive label. Nothing is stored.
func (s *Service) Label(_ context.Context, req LabelRequest) (*Result, error) {
	set, err := resolveSet(req.Set)
	if err != nil {
		return nil, err
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = s.newID()
	}
	pdf, err := s.renderer.RenderLabel(set.String(), req.StoneCount, id)
	if err != nil {
		return nil, err
	}
	return &Result{CardID: id, PDF: pdf}, nil
}

// Search returns the cards and stones matching f, newest first.
func (s *Service) Search(ctx context.Context, f types.Filter) (*SearchResult, error) {
	cards, err := s.store.QueryCards(ctx, f)
	if err != nil {
		return nil, err
	}
	items, err := s.store.QueryLineItems(ctx, f)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Cards: cards, Items: items}, nil
}

// AddStone appends a stone to an existing card. The diameter must belong to
// the card's declared set; otherwise nothing is written and added is false.
func (s *Service) AddStone(ctx context.Context, cardID string, line types.Line) (added bool, err error) {
	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		return false, err
	}
	added, err = s.store.AddLineItem(ctx, card.ID, line, card.Set)
	if err != nil {
		return false, err
	}
	if !added {
		s.logger.Debug("stone rejected",
			zap.String("card_id", card.ID),
			zap.Float64("diameter", line.Diameter),
			zap.String("set", card.SetName()),
		)
	}
	return added, nil
}

// SetStatus overwrites the status of one stone.
func (s *Service) SetStatus(ctx context.Context, itemID int64, status string) error {
	return s.store.UpdateLineItemStatus(ctx, itemID, status)
}

// DeleteCard removes a card and all its stones.
func (s *Service) DeleteCard(ctx context.Context, id string) error {
	if err := s.store.DeleteCard(ctx, id); err != nil {
		return err
	}
	s.logger.Info("card deleted", zap.String("card_id", id))
	return nil
}

// DeleteStone removes one stone; its card is untouched.
func (s *Service) DeleteStone(ctx context.Context, itemID int64) error {
	return s.store.DeleteLineItem(ctx, itemID)
}

func resolveSet(set types.DiameterSet) (types.DiameterSet, error) {
	if set == 0 {
		return types.DefaultDiameterSet, nil
	}
	if !set.Valid() {
		return 0, types.ErrInvalidSet
	}
	return set, nil
}
