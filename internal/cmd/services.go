package cmd

import (
	"fmt"

	"github.com/Dallionking/talenthub/internal/application"
	"github.com/Dallionking/talenthub/internal/draft"
	"github.com/Dallionking/talenthub/internal/outbox"
	"github.com/Dallionking/talenthub/internal/wizard"
)

// openDraftStorage returns the on-disk draft storage, or an in-memory one
// when ephemeral is set.
func openDraftStorage(ephemeral bool) (draft.Storage, error) {
	if ephemeral {
		return draft.NewMemoryStorage(cfg.Draft.QuotaBytes), nil
	}
	fs, err := draft.NewFileStorage(paths.Draft, cfg.Draft.QuotaBytes)
	if err != nil {
		return nil, fmt.Errorf("opening draft storage: %w", err)
	}
	return fs, nil
}

func openDraftStore(ephemeral bool) (*draft.Store, error) {
	storage, err := openDraftStorage(ephemeral)
	if err != nil {
		return nil, err
	}
	return draft.NewStore(storage, draft.WithLogger(logger)), nil
}

func openOutbox() (*outbox.Outbox, error) {
	box, err := outbox.New(paths.Outbox)
	if err != nil {
		return nil, fmt.Errorf("opening outbox: %w", err)
	}
	return box, nil
}

func newValidator() *application.Validator {
	return application.NewValidator(application.WithUploadPolicy(cfg.UploadPolicy()))
}

// newController wires the wizard to the draft store and the outbox.
func newController(ephemeral bool) (*wizard.Controller, error) {
	store, err := openDraftStore(ephemeral)
	if err != nil {
		return nil, err
	}
	box, err := openOutbox()
	if err != nil {
		return nil, err
	}
	return wizard.New(
		wizard.WithValidator(newValidator()),
		wizard.WithStore(store),
		wizard.WithSubmitter(wizard.NewStubSubmitter(box, cfg.Submission.Delay, logger)),
		wizard.WithLogger(logger),
	), nil
}
