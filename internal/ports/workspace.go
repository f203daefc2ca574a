package ports

import "github.com/stauffenbits/casg/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) (written []string, err error)
}
