package directory

import (
	"context"
	"testing"

	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/investigation"
)

func TestInMemoryDirectory_ResolvesRegisteredEntity(t *testing.T) {
	dir := NewInMemoryDirectory()
	identifiers := domain.Identifiers{Name: "Jordan Ellis", DOB: "1985-02-11"}
	req := investigation.ScreeningRequest{EntityID: "entity-1", Jurisdiction: "US", RoleCategory: "finance"}
	dir.Register("entity-1", identifiers, req)

	gotIdentifiers, err := dir.Identifiers(context.Background(), "entity-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotIdentifiers != identifiers {
		t.Errorf("expected %+v, got %+v", identifiers, gotIdentifiers)
	}

	gotReq, err := dir.Subject(context.Background(), "entity-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotReq.Jurisdiction != "US" || gotReq.RoleCategory != "finance" {
		t.Errorf("unexpected request: %+v", gotReq)
	}
}

func TestInMemoryDirectory_UnknownEntityErrors(t *testing.T) {
	dir := NewInMemoryDirectory()
	if _, err := dir.Identifiers(context.Background(), "missing"); err == nil {
		t.Error("expected an error for an unregistered entity")
	}
	if _, err := dir.Subject(context.Background(), "missing"); err == nil {
		t.Error("expected an error for an unregistered entity")
	}
}
