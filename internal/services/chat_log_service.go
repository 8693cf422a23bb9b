package services

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/logger"
	"bizledger/internal/models"
)

// chatLogService appends chat turns to the history table.
type chatLogService struct {
	db *gorm.DB
}

// NewChatLogService creates a new ChatLogger.
func NewChatLogService(db *gorm.DB) ChatLogger {
	return &chatLogService{db: db}
}

// Log records a chat turn. Errors are logged but never propagate
// to avoid disrupting the reply.
func (s *chatLogService) Log(turn ChatTurnInput) {
	var metadata datatypes.JSON
	if turn.Metadata != nil {
		data, err := json.Marshal(turn.Metadata)
		if err != nil {
			logger.Get().Errorw("failed to marshal chat metadata", "error", err, "context", turn.Context)
		} else {
			metadata = datatypes.JSON(data)
		}
	}

	contextType := turn.Context
	if contextType == "" {
		contextType = "general"
	}

	entry := &models.ChatTurn{
		UserMessage: turn.UserMessage,
		AIResponse:  turn.Response,
		ContextType: contextType,
		Metadata:    metadata,
		TokensUsed:  turn.Tokens,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create chat history entry",
			"error", err,
			"context", contextType,
		)
	}
}

// History returns the most recent turns first.
func (s *chatLogService) History(limit int) ([]models.ChatTurn, error) {
	if limit <= 0 || limit > maxAnalysesLimit {
		limit = 50
	}

	var turns []models.ChatTurn
	if err := s.db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&turns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if turns == nil {
		turns = []models.ChatTurn{}
	}
	return turns, nil
}
