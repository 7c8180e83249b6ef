package identity

import (
	"context"
	"errors"
	"testing"
)

type fakeDirectory struct {
	ids    map[string]bool
	phones map[string]string
	emails map[string]string
	err    error

	idCalls    int
	phoneCalls int
	emailCalls int
}

func (f *fakeDirectory) LookupByID(ctx context.Context, customerID string) (bool, error) {
	f.idCalls++
	if f.err != nil {
		return false, f.err
	}
	return f.ids[customerID], nil
}

func (f *fakeDirectory) LookupByPhone(ctx context.Context, phone string) (string, error) {
	f.phoneCalls++
	if f.err != nil {
		return "", f.err
	}
	return f.phones[phone], nil
}

func (f *fakeDirectory) LookupByEmail(ctx context.Context, email string) (string, error) {
	f.emailCalls++
	if f.err != nil {
		return "", f.err
	}
	return f.emails[email], nil
}

func TestResolveDirectCustomerID(t *testing.T) {
	t.Parallel()

	dir := &fakeDirectory{ids: map[string]bool{"1": true}}
	r := NewResolver(dir)

	id, ok := r.Resolve(context.Background(), "1")
	if !ok || id != "1" {
		t.Fatalf("Resolve(1) = %q, %v", id, ok)
	}
	if dir.phoneCalls != 0 || dir.emailCalls != 0 {
		t.Fatal("digit identifier must use the id path only")
	}
}

func TestResolveUnknownCustomerID(t *testing.T) {
	t.Parallel()

	r := NewResolver(&fakeDirectory{ids: map[string]bool{}})
	if _, ok := r.Resolve(context.Background(), "42"); ok {
		t.Fatal("Resolve(42) should not resolve")
	}
}

func TestResolveFormattedPhone(t *testing.T) {
	t.Parallel()

	dir := &fakeDirectory{phones: map[string]string{"+55 (12) 3923-5555": "1"}}
	r := NewResolver(dir)

	id, ok := r.Resolve(context.Background(), "+55 (12) 3923-5555")
	if !ok || id != "1" {
		t.Fatalf("Resolve(phone) = %q, %v", id, ok)
	}
	if dir.idCalls != 0 {
		t.Fatal("formatted phone must not hit the id path")
	}
}

func TestResolvePhoneWithoutPlusPrefix(t *testing.T) {
	t.Parallel()

	dir := &fakeDirectory{phones: map[string]string{"(12) 3923-5555": "1"}}
	r := NewResolver(dir)

	id, ok := r.Resolve(context.Background(), "(12) 3923-5555")
	if !ok || id != "1" {
		t.Fatalf("Resolve(formatted digits) = %q, %v", id, ok)
	}
}

func TestResolveEmail(t *testing.T) {
	t.Parallel()

	dir := &fakeDirectory{emails: map[string]string{"luisg@embraer.com.br": "1"}}
	r := NewResolver(dir)

	id, ok := r.Resolve(context.Background(), "luisg@embraer.com.br")
	if !ok || id != "1" {
		t.Fatalf("Resolve(email) = %q, %v", id, ok)
	}
	if dir.phoneCalls != 0 {
		t.Fatal("email must not hit the phone path")
	}
}

func TestResolveUnclassifiableIdentifier(t *testing.T) {
	t.Parallel()

	dir := &fakeDirectory{}
	r := NewResolver(dir)

	if _, ok := r.Resolve(context.Background(), "not an identifier"); ok {
		t.Fatal("free text should not resolve")
	}
	if dir.idCalls+dir.phoneCalls+dir.emailCalls != 0 {
		t.Fatal("unclassifiable input should never reach the directory")
	}
}

func TestResolveDirectoryErrorIsNotFound(t *testing.T) {
	t.Parallel()

	r := NewResolver(&fakeDirectory{err: errors.New("db gone")})
	if _, ok := r.Resolve(context.Background(), "1"); ok {
		t.Fatal("directory error must resolve to not-found")
	}
}

func TestResolveEmptyIdentifier(t *testing.T) {
	t.Parallel()

	r := NewResolver(&fakeDirectory{})
	if _, ok := r.Resolve(context.Background(), "   "); ok {
		t.Fatal("blank identifier should not resolve")
	}
}
