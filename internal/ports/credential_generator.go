package ports

import "github.com/stauffenbits/casg/internal/domain"

type CredentialGenerator interface {
	Generate(spec domain.CertificateSpec, force bool) (written []string, err error)
}
