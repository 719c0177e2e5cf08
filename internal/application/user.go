package app

import (
	"context"

	"pneumo-bot/internal/domain/entity"
	"pneumo-bot/internal/domain/port"
)

// UserService ведёт состояние диалога в чате
type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// BeginDiagnosis переводит пользователя в ожидание снимка
func (s *UserService) BeginDiagnosis(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingXray)
}

// StartProcessing помечает, что по пользователю идёт диагностика.
// Возвращает false, если диагностика уже запущена
func (s *UserService) StartProcessing(ctx context.Context, userID, chatID int64) (*entity.User, bool, error) {
	return s.repo.Update(ctx, userID, chatID, func(user *entity.User) bool {
		if user.IsBusy() {
			return false
		}
		user.SetState(entity.StateProcessing)
		return true
	})
}

// FinishProcessing возвращает пользователя в меню и запоминает ID отчёта
func (s *UserService) FinishProcessing(ctx context.Context, userID, chatID int64, reportID string) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(entity.StateMainMenu)
	if reportID != "" {
		user.LastReportID = reportID
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// ActiveUsers возвращает число известных пользователей
func (s *UserService) ActiveUsers(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
