package validation

import (
	"regexp"
	"unicode"
)

var (
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	// International prefix, optional +, up to 15 digits.
	phoneRe = regexp.MustCompile(`^\+?[1-9]\d{8,14}$`)
)

var wasteCategories = []string{"plastic", "paper", "metal", "glass", "organic", "electronic", "other"}

// passwordClasses requires upper, lower, and digit. Length is a separate
// rule so each failure reports its own message.
func passwordClasses(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

func LoginSchema() Schema {
	return Schema{
		Fields: []Field{
			{Name: "username", Type: TypeString, Rules: []Rule{
				Required("username is required"),
				MinLen(3, "username must be at least 3 characters"),
			}},
			{Name: "password", Type: TypeString, Rules: []Rule{
				Required("password is required"),
				MinLen(8, "password must be at least 8 characters"),
			}},
		},
	}
}

func RegistrationSchema() Schema {
	return Schema{
		Fields: []Field{
			{Name: "username", Type: TypeString, Rules: []Rule{
				Required("username is required"),
				MinLen(3, "username must be at least 3 characters"),
				MaxLen(150, "username must be at most 150 characters"),
				Match(usernameRe, "username may contain only letters, digits and @/./+/-/_"),
			}},
			{Name: "email", Type: TypeString, Rules: []Rule{
				Required("email is required"),
				Match(emailRe, "enter a valid email address"),
			}},
			{Name: "password", Type: TypeString, Rules: []Rule{
				Required("password is required"),
				MinLen(8, "password must be at least 8 characters"),
				Satisfies(passwordClasses, "password must contain an uppercase letter, a lowercase letter and a digit"),
			}},
			{Name: "password_confirm", Type: TypeString, Rules: []Rule{
				Required("please confirm your password"),
			}},
			{Name: "first_name", Type: TypeString, Rules: []Rule{
				Required("first name is required"),
				MaxLen(100, "first name must be at most 100 characters"),
			}},
			{Name: "last_name", Type: TypeString, Rules: []Rule{
				Required("last name is required"),
				MaxLen(100, "last name must be at most 100 characters"),
			}},
			{Name: "phone", Type: TypeString, Rules: []Rule{
				Match(phoneRe, "enter a valid phone number with country code"),
			}},
			{Name: "date_of_birth", Type: TypeDate, Rules: []Rule{
				Required("date of birth is required"),
				AgeBetween(16, 50, "you must be between 16 and 50 years old to register"),
			}},
			{Name: "county", Type: TypeString, Rules: []Rule{
				MaxLen(100, "county must be at most 100 characters"),
			}},
		},
		Cross: []CrossRule{
			{
				Kind:    CrossFieldsEqual,
				A:       "password",
				B:       "password_confirm",
				Target:  "password_confirm",
				Message: "passwords do not match",
			},
		},
	}
}

func ProfileUpdateSchema() Schema {
	return Schema{
		Fields: []Field{
			{Name: "first_name", Type: TypeString, Rules: []Rule{
				MaxLen(100, "first name must be at most 100 characters"),
			}},
			{Name: "last_name", Type: TypeString, Rules: []Rule{
				MaxLen(100, "last name must be at most 100 characters"),
			}},
			{Name: "phone", Type: TypeString, Rules: []Rule{
				Match(phoneRe, "enter a valid phone number with country code"),
			}},
			{Name: "date_of_birth", Type: TypeDate, Rules: []Rule{
				AgeBetween(16, 100, "age must be between 16 and 100 years"),
			}},
			{Name: "bio", Type: TypeString, Rules: []Rule{
				MaxLen(500, "bio must be at most 500 characters"),
			}},
			{Name: "county", Type: TypeString, Rules: []Rule{
				MaxLen(100, "county must be at most 100 characters"),
			}},
		},
	}
}

func WasteReportSchema() Schema {
	return Schema{
		Fields: []Field{
			{Name: "title", Type: TypeString, Rules: []Rule{
				Required("title is required"),
				MinLen(5, "title must be at least 5 characters"),
				MaxLen(200, "title must be at most 200 characters"),
			}},
			{Name: "description", Type: TypeString, Rules: []Rule{
				Required("description is required"),
				MinLen(10, "description must be at least 10 characters"),
			}},
			{Name: "category", Type: TypeString, Rules: []Rule{
				Required("category is required"),
				OneOf(wasteCategories, "choose a valid waste category"),
			}},
			{Name: "estimated_weight", Type: TypeFloat, Rules: []Rule{
				Required("estimated weight is required"),
				Between(0.1, 1000, "estimated weight must be between 0.1 and 1000 kg"),
			}},
			{Name: "location", Type: TypeString, Rules: []Rule{
				Required("location is required"),
			}},
		},
	}
}

func CollectionEventSchema() Schema {
	return Schema{
		Fields: []Field{
			{Name: "title", Type: TypeString, Rules: []Rule{
				Required("title is required"),
				MinLen(5, "title must be at least 5 characters"),
				MaxLen(200, "title must be at most 200 characters"),
			}},
			{Name: "description", Type: TypeString, Rules: []Rule{
				Required("description is required"),
			}},
			{Name: "location", Type: TypeString, Rules: []Rule{
				Required("location is required"),
			}},
			{Name: "start_datetime", Type: TypeDateTime, Rules: []Rule{
				Required("start date and time is required"),
			}},
			{Name: "end_datetime", Type: TypeDateTime, Rules: []Rule{
				Required("end date and time is required"),
			}},
			{Name: "max_participants", Type: TypeInt, Rules: []Rule{
				Between(1, 10000, "max participants must be between 1 and 10000"),
			}},
			// registration_deadline is not ordered against start_datetime;
			// the form has never enforced it.
			{Name: "registration_deadline", Type: TypeDateTime},
		},
		Cross: []CrossRule{
			{
				Kind:    CrossTimeAfter,
				A:       "start_datetime",
				B:       "end_datetime",
				Target:  "end_datetime",
				Message: "end must be after start",
			},
		},
	}
}
