package validation

import "testing"

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin staff"`
}

func TestValidate_OK(t *testing.T) {
	if err := New().Validate(credentials{Email: "a@example.org", Password: "12345678"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MessagesUseJSONNames(t *testing.T) {
	err := New().Validate(credentials{Email: "nope", Password: "short", Role: "root"})
	if err == nil {
		t.Fatalf("expected error")
	}
	want := "email must be a valid email; password must be at least 8 characters; role must be one of: admin staff"
	if err.Error() != want {
		t.Fatalf("unexpected message:\n got: %s\nwant: %s", err.Error(), want)
	}
}

func TestValidate_Required(t *testing.T) {
	err := New().Validate(credentials{})
	if err == nil || err.Error() != "email is required; password is required" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVar(t *testing.T) {
	v := New()
	if err := v.Var("email", "a@example.org", "required,email"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.Var("email", "", "required,email"); err == nil || err.Error() != "email is required" {
		t.Fatalf("unexpected error: %v", err)
	}
}
