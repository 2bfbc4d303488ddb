package host

import (
	"context"
	"fmt"
	"strings"

	"github.com/bft-labs/actionbridge/internal/domain"
	"github.com/bft-labs/actionbridge/internal/ports"
	"github.com/bft-labs/actionbridge/internal/slices/classifier"
)

// ClassifierService is the host side of the classifier domain.
type ClassifierService struct {
	repo ports.ClassifierRepository
}

// NewClassifierService creates a service persisting names to repo.
func NewClassifierService(repo ports.ClassifierRepository) *ClassifierService {
	return &ClassifierService{repo: repo}
}

// Handle answers renameClassifier with classifierRenamed and
// cancelClassifierRename with classifierRenameCanceled.
func (s *ClassifierService) Handle(ctx context.Context, action domain.EnvelopeAction) (domain.EnvelopeAction, error) {
	switch action.Type {
	case classifier.RenameClassifier:
		var dto classifier.EditNameDTO
		if err := action.Decode(&dto); err != nil {
			return domain.EnvelopeAction{}, Reject(CodeInvalid, "%v", err)
		}
		name := strings.TrimSpace(dto.NewName)
		if name == "" {
			return domain.EnvelopeAction{}, Reject(CodeInvalid, "classifier name must not be empty")
		}
		if err := s.repo.Save(ctx, name); err != nil {
			return domain.EnvelopeAction{}, fmt.Errorf("save classifier name: %w", err)
		}
		return domain.NewEnvelopeAction(classifier.ClassifierRenamed, classifier.EditNameDTO{NewName: name})

	case classifier.CancelClassifierRename:
		name, err := s.current(ctx)
		if err != nil {
			return domain.EnvelopeAction{}, err
		}
		return domain.NewEnvelopeAction(classifier.ClassifierRenameCanceled, classifier.EditNameDTO{NewName: name})

	default:
		return domain.EnvelopeAction{}, Reject(CodeUnknownAction, "classifier cannot handle %q", action.Type)
	}
}

func (s *ClassifierService) current(ctx context.Context) (string, error) {
	name, err := s.repo.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load classifier name: %w", err)
	}
	if name == "" {
		return classifier.DefaultName, nil
	}
	return name, nil
}
