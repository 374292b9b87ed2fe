package validator

import (
	"context"
	"strings"
	"testing"
)

type sample struct {
	Name      string `validate:"required"`
	StartDate string `validate:"required,dateonly"`
	StartTime string `validate:"omitempty,clocktime"`
	RSVP      string `validate:"omitempty,rsvpvalue"`
}

func TestValidateOK(t *testing.T) {
	err := Validate(context.Background(), sample{
		Name: "Camp", StartDate: "2024-06-03", StartTime: "18:30", RSVP: "maybe",
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateFailures(t *testing.T) {
	for _, tc := range []struct {
		in   sample
		want string
	}{
		{sample{StartDate: "2024-06-03"}, "required"},
		{sample{Name: "Camp", StartDate: "June 3rd"}, "calendar date"},
		{sample{Name: "Camp", StartDate: "2024-06-03", StartTime: "6:30pm"}, "time of day"},
		{sample{Name: "Camp", StartDate: "2024-06-03", RSVP: "perhaps"}, "yes, no or maybe"},
	} {
		err := Validate(context.Background(), tc.in)
		if err == nil {
			t.Errorf("Validate(%+v) = nil, want error containing %q", tc.in, tc.want)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("Validate(%+v) = %q, want substring %q", tc.in, err, tc.want)
		}
	}
}
