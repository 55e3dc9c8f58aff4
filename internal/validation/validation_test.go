package validation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validRegistration() map[string]any {
	dob := time.Now().AddDate(-25, 0, 0).Format("2006-01-02")
	return map[string]any{
		"username":         "jane_wanjiru",
		"email":            "jane@example.com",
		"password":         "GreenJobs1",
		"password_confirm": "GreenJobs1",
		"first_name":       "Jane",
		"last_name":        "Wanjiru",
		"phone":            "+254712345678",
		"date_of_birth":    dob,
		"county":           "Nairobi",
	}
}

func TestValidate_Registration_Valid(t *testing.T) {
	res := Validate(RegistrationSchema(), validRegistration())

	assert.True(t, res.OK)
	assert.Empty(t, res.Errors)
	assert.Equal(t, "jane_wanjiru", res.Value["username"])
}

func TestValidate_Registration_PasswordMismatch(t *testing.T) {
	input := validRegistration()
	input["password_confirm"] = "GreenJobs2"

	res := Validate(RegistrationSchema(), input)

	assert.False(t, res.OK)
	assert.Equal(t, []string{"passwords do not match"}, res.Errors["password_confirm"])
	assert.NotContains(t, res.Errors, "password")
}

func TestValidate_Registration_PasswordClasses(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"GreenJobs1", true},
		{"greenjobs1", false},
		{"GREENJOBS1", false},
		{"GreenJobsX", false},
	}

	for _, tc := range tests {
		input := validRegistration()
		input["password"] = tc.password
		input["password_confirm"] = tc.password

		res := Validate(RegistrationSchema(), input)
		assert.Equal(t, tc.ok, res.OK, "password %q", tc.password)
		if !tc.ok {
			assert.Contains(t, res.Errors, "password")
		}
	}
}

func TestValidate_Registration_AgeBounds(t *testing.T) {
	tests := []struct {
		years int
		ok    bool
	}{
		{15, false},
		{16, true},
		{50, true},
		{51, false},
	}

	for _, tc := range tests {
		input := validRegistration()
		input["date_of_birth"] = fmt.Sprintf("%04d-06-15", time.Now().Year()-tc.years)

		res := Validate(RegistrationSchema(), input)
		assert.Equal(t, tc.ok, res.OK, "age %d", tc.years)
	}
}

func TestValidate_ProfileUpdate_WiderAgeBound(t *testing.T) {
	input := map[string]any{
		"date_of_birth": fmt.Sprintf("%04d-01-01", time.Now().Year()-80),
	}

	res := Validate(ProfileUpdateSchema(), input)
	assert.True(t, res.OK)
}

func TestValidate_Login_ShortFields(t *testing.T) {
	res := Validate(LoginSchema(), map[string]any{
		"username": "ab",
		"password": "short",
	})

	assert.False(t, res.OK)
	assert.Equal(t, []string{"username must be at least 3 characters"}, res.Errors["username"])
	assert.Equal(t, []string{"password must be at least 8 characters"}, res.Errors["password"])
}

func TestValidate_FailFastPerField(t *testing.T) {
	// Both min-length and pattern are broken; only the first rule reports.
	res := Validate(RegistrationSchema(), map[string]any{"username": "a!"})

	assert.False(t, res.OK)
	assert.Len(t, res.Errors["username"], 1)
	assert.Equal(t, "username must be at least 3 characters", res.Errors["username"][0])
}

func TestValidate_MissingRequiredFieldsAccumulate(t *testing.T) {
	res := Validate(LoginSchema(), map[string]any{})

	assert.False(t, res.OK)
	assert.Contains(t, res.Errors, "username")
	assert.Contains(t, res.Errors, "password")
}

func TestValidate_WrongTypeIsFieldError(t *testing.T) {
	input := map[string]any{
		"title":            "Beach cleanup drive",
		"description":      "Clearing plastic from the shoreline",
		"category":         "plastic",
		"estimated_weight": "heavy",
		"location":         "Mombasa",
	}

	res := Validate(WasteReportSchema(), input)

	assert.False(t, res.OK)
	assert.Equal(t, []string{"must be a number"}, res.Errors["estimated_weight"])
}

func TestValidate_WasteReport_WeightRange(t *testing.T) {
	base := map[string]any{
		"title":       "Beach cleanup drive",
		"description": "Clearing plastic from the shoreline",
		"category":    "plastic",
		"location":    "Mombasa",
	}

	tests := []struct {
		weight any
		ok     bool
	}{
		{0.05, false},
		{0.1, true},
		{"250", true},
		{1000.0, true},
		{1200, false},
	}

	for _, tc := range tests {
		input := map[string]any{}
		for k, v := range base {
			input[k] = v
		}
		input["estimated_weight"] = tc.weight

		res := Validate(WasteReportSchema(), input)
		assert.Equal(t, tc.ok, res.OK, "weight %v", tc.weight)
	}
}

func TestValidate_WasteReport_CategoryMembership(t *testing.T) {
	input := map[string]any{
		"title":            "Scrap metal pile",
		"description":      "Rusty sheets behind the market",
		"category":         "uranium",
		"estimated_weight": 40,
		"location":         "Kisumu",
	}

	res := Validate(WasteReportSchema(), input)

	assert.False(t, res.OK)
	assert.Equal(t, []string{"choose a valid waste category"}, res.Errors["category"])
}

func validEvent() map[string]any {
	return map[string]any{
		"title":          "River cleanup",
		"description":    "Monthly cleanup along the Nairobi river",
		"location":       "Nairobi",
		"start_datetime": "2026-09-12T09:00",
		"end_datetime":   "2026-09-12T13:00",
	}
}

func TestValidate_Event_Valid(t *testing.T) {
	res := Validate(CollectionEventSchema(), validEvent())

	assert.True(t, res.OK)
	start := res.Value["start_datetime"].(time.Time)
	end := res.Value["end_datetime"].(time.Time)
	assert.True(t, end.After(start))
}

func TestValidate_Event_EndNotAfterStart(t *testing.T) {
	for _, end := range []string{"2026-09-12T09:00", "2026-09-12T08:00"} {
		input := validEvent()
		input["end_datetime"] = end

		res := Validate(CollectionEventSchema(), input)

		assert.False(t, res.OK)
		assert.Equal(t, []string{"end must be after start"}, res.Errors["end_datetime"])
	}
}

func TestValidate_Event_DeadlineNotOrdered(t *testing.T) {
	// A deadline after the event start is accepted; no ordering rule exists.
	input := validEvent()
	input["registration_deadline"] = "2026-09-20T00:00"

	res := Validate(CollectionEventSchema(), input)
	assert.True(t, res.OK)
}

func TestValidate_CrossRulesSkippedWhenFieldsFail(t *testing.T) {
	input := validEvent()
	input["title"] = "ab"
	input["end_datetime"] = "2026-09-12T08:00"

	res := Validate(CollectionEventSchema(), input)

	assert.False(t, res.OK)
	assert.Contains(t, res.Errors, "title")
	assert.NotContains(t, res.Errors, "end_datetime")
}

func TestValidate_PureNoInputMutation(t *testing.T) {
	input := map[string]any{"username": "ab"}
	Validate(LoginSchema(), input)

	assert.Equal(t, map[string]any{"username": "ab"}, input)
}
