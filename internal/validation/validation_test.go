package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"user_123", true},
		{"order-456", true},
		{"u:2026.08", true},
		{"ABC", true},

		// Invalid: empty, whitespace, control chars, separators, too long
		{"", false},
		{"user 123", false},
		{"user\x00123", false},
		{"user/123", false},
		{strings.Repeat("a", MaxIdentifierLength+1), false},
		{strings.Repeat("a", MaxIdentifierLength), true},
	}

	for _, tc := range tests {
		result := IsValidIdentifier(tc.id)
		if result != tc.valid {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", tc.id, result, tc.valid)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"hello", 10, "hello"},
		{"  hello  ", 10, "hello"},
		{"hello world", 5, "hello"},
		{"hello\x00world", 20, "helloworld"},
	}

	for _, tc := range tests {
		result := SanitizeString(tc.input, tc.maxLen)
		if result != tc.expected {
			t.Errorf("SanitizeString(%q, %d) = %q, want %q", tc.input, tc.maxLen, result, tc.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	// Test valid input
	errors := Validate(
		Required("user_id", "user_123"),
		ValidIdentifier("order_id", "order_456"),
	)
	if len(errors) != 0 {
		t.Errorf("Expected no errors, got %v", errors)
	}

	// Test invalid input
	errors = Validate(
		Required("user_id", ""),
		ValidIdentifier("order_id", "not valid!"),
	)
	if len(errors) != 2 {
		t.Errorf("Expected 2 errors, got %d", len(errors))
	}
}

func TestMaxLength(t *testing.T) {
	// Under limit
	err := MaxLength("field", "hello", 10)()
	if err != nil {
		t.Error("Expected no error for string under limit")
	}

	// At limit
	err = MaxLength("field", "hello", 5)()
	if err != nil {
		t.Error("Expected no error for string at limit")
	}

	// Over limit
	err = MaxLength("field", "hello world", 5)()
	if err == nil {
		t.Error("Expected error for string over limit")
	}
}

func TestUserIDParamMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/users/:userId/scores", UserIDParamMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		userID string
		code   int
	}{
		{"user_123", http.StatusOK},
		{"u-1.2:3", http.StatusOK},
		{"bad%20id", http.StatusBadRequest}, // decodes to "bad id"
		{strings.Repeat("a", 200), http.StatusBadRequest},
	}

	for _, tc := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/users/"+tc.userID+"/scores", nil)
		r.ServeHTTP(w, req)
		if w.Code != tc.code {
			t.Errorf("userId %q: expected %d, got %d", tc.userID, tc.code, w.Code)
		}
	}
}

func TestRequestSizeMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/score", RequestSizeMiddleware(64), func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		c.Status(http.StatusOK)
	})

	// Small body passes.
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/score", strings.NewReader(`{"a":1}`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for small body, got %d", w.Code)
	}

	// Oversized body is rejected during binding.
	big := `{"a":"` + strings.Repeat("x", 128) + `"}`
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/score", strings.NewReader(big))
	r.ServeHTTP(w, req)
	if w.Code == http.StatusOK {
		t.Error("Expected oversized body to be rejected")
	}
}
