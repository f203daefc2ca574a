package usecase

import (
	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/ports"
)

type GenerateCredentials struct {
	generator ports.CredentialGenerator
}

func NewGenerateCredentials(g ports.CredentialGenerator) *GenerateCredentials {
	return &GenerateCredentials{generator: g}
}

func (uc *GenerateCredentials) Execute(spec domain.CertificateSpec, force bool) ([]string, error) {
	if len(spec.Hosts) == 0 {
		spec.Hosts = []string{"localhost", "127.0.0.1"}
	}
	return uc.generator.Generate(spec, force)
}
