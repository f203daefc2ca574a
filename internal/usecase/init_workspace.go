package usecase

import (
	"errors"

	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/ports"
)

type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
	generator   ports.CredentialGenerator
}

// NewInitWorkspace builds the use case. A nil generator skips credential generation.
func NewInitWorkspace(initializer ports.WorkspaceInitializer, generator ports.CredentialGenerator) *InitWorkspace {
	return &InitWorkspace{initializer: initializer, generator: generator}
}

// Execute prepares root for serving. When spec is non-nil and a generator is set,
// a development key pair is written as well; existing credentials are kept unless force.
func (uc *InitWorkspace) Execute(root string, spec *domain.CertificateSpec, force bool) ([]string, error) {
	written, err := uc.initializer.Init(domain.WorkspaceSpec{Root: root}, force)
	if err != nil {
		return written, err
	}
	if spec == nil || uc.generator == nil {
		return written, nil
	}

	s := *spec
	if s.Dir == "" {
		s.Dir = root
	}
	creds, err := NewGenerateCredentials(uc.generator).Execute(s, force)
	if errors.Is(err, domain.ErrExists) {
		return written, nil
	}
	return append(written, creds...), err
}
