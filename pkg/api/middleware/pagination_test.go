package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/testdeck/testdeck/pkg/utils"
)

func TestValidateCursor(t *testing.T) {
	tests := []struct {
		name      string
		cursor    string
		wantType  string
		wantValue string
		wantErr   bool
	}{
		{name: "offset cursor", cursor: utils.EncodeOffset(30), wantType: "offset", wantValue: "30"},
		{name: "next cursor", cursor: utils.EncodeCursor("abc"), wantType: "next_cursor", wantValue: "abc"},
		{name: "not base64", cursor: "%%%", wantErr: true},
		{name: "missing delimiter", cursor: base64.StdEncoding.EncodeToString([]byte("offset30")), wantErr: true},
		{name: "unknown cursor type", cursor: base64.StdEncoding.EncodeToString([]byte("page:3")), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotValue, err := validateCursor(tt.cursor)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateCursor() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if gotType != tt.wantType {
				t.Errorf("validateCursor() gotType = %v, want %v", gotType, tt.wantType)
			}
			if gotValue != tt.wantValue {
				t.Errorf("validateCursor() gotValue = %v, want %v", gotValue, tt.wantValue)
			}
		})
	}
}

func TestHandlePage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLimit  int
		wantOffset string
	}{
		{name: "default limit", query: "", wantStatus: http.StatusOK, wantLimit: 10},
		{name: "custom limit", query: "?per_page=25", wantStatus: http.StatusOK, wantLimit: 25},
		{name: "zero limit falls back to default", query: "?per_page=0", wantStatus: http.StatusOK, wantLimit: 10},
		{name: "limit is capped", query: "?per_page=500", wantStatus: http.StatusOK, wantLimit: 100},
		{name: "non numeric limit", query: "?per_page=lots", wantStatus: http.StatusBadRequest},
		{name: "valid cursor", query: "?next_cursor=" + utils.EncodeOffset(20), wantStatus: http.StatusOK, wantLimit: 10, wantOffset: "20"},
		{name: "invalid cursor", query: "?next_cursor=garbage", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			_, engine := gin.CreateTestContext(w)
			var gotLimit int
			var gotOffset string
			engine.GET("/", HandlePage(), func(c *gin.Context) {
				gotLimit = c.GetInt("limit")
				gotOffset = c.GetString("offset")
				c.Status(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			engine.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("HandlePage() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if gotLimit != tt.wantLimit {
				t.Errorf("HandlePage() limit = %v, want %v", gotLimit, tt.wantLimit)
			}
			if gotOffset != tt.wantOffset {
				t.Errorf("HandlePage() offset = %v, want %v", gotOffset, tt.wantOffset)
			}
		})
	}
}
