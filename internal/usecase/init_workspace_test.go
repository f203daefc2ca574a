package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stauffenbits/casg/internal/domain"
)

type fakeInitializer struct {
	spec  domain.WorkspaceSpec
	force bool
	err   error
}

func (f *fakeInitializer) Init(spec domain.WorkspaceSpec, force bool) ([]string, error) {
	f.spec, f.force = spec, force
	if f.err != nil {
		return nil, f.err
	}
	return []string{"casg.yaml"}, nil
}

type existingGenerator struct{}

func (existingGenerator) Generate(spec domain.CertificateSpec, _ bool) ([]string, error) {
	return nil, &domain.OpError{Op: "certgen.generate", Kind: domain.KindExecution, Path: spec.KeyFile,
		Err: fmt.Errorf("%w (use --force to overwrite)", domain.ErrExists)}
}

func TestInitWorkspace_ConfigOnly(t *testing.T) {
	fi := &fakeInitializer{}
	gen := &fakeGenerator{}

	written, err := NewInitWorkspace(fi, gen).Execute("site", nil, true)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if fi.spec.Root != "site" || !fi.force {
		t.Fatalf("unexpected init call: %+v force=%v", fi.spec, fi.force)
	}
	if len(written) != 1 {
		t.Fatalf("expected only config written, got %v", written)
	}
	if gen.spec.KeyFile != "" {
		t.Fatalf("generator must not run without a certificate spec")
	}
}

func TestInitWorkspace_WithCredentials(t *testing.T) {
	gen := &fakeGenerator{}
	spec := &domain.CertificateSpec{KeyFile: "privkey.pem", CertFile: "certificate.pem"}

	written, err := NewInitWorkspace(&fakeInitializer{}, gen).Execute("site", spec, false)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if gen.spec.Dir != "site" {
		t.Fatalf("expected credentials under root, got dir %q", gen.spec.Dir)
	}
	if len(gen.spec.Hosts) == 0 {
		t.Fatalf("expected default hosts")
	}
	if len(written) != 3 {
		t.Fatalf("expected config and pair written, got %v", written)
	}
}

func TestInitWorkspace_KeepsExistingCredentials(t *testing.T) {
	spec := &domain.CertificateSpec{}
	written, err := NewInitWorkspace(&fakeInitializer{}, existingGenerator{}).Execute(".", spec, false)
	if err != nil {
		t.Fatalf("expected existing credentials to be skipped, got %v", err)
	}
	if len(written) != 1 {
		t.Fatalf("unexpected written %v", written)
	}
}

func TestInitWorkspace_InitializerError(t *testing.T) {
	boom := errors.New("read-only")
	_, err := NewInitWorkspace(&fakeInitializer{err: boom}, nil).Execute(".", &domain.CertificateSpec{}, false)
	if !errors.Is(err, boom) {
		t.Fatalf("expected initializer error, got %v", err)
	}
}
