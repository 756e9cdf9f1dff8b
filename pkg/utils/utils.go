package utils

import (
	"encoding/base64"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateUUID generates uuid v4
func GenerateUUID() string {
	uuidV4 := uuid.New() // panics on error
	return strings.Map(func(r rune) rune {
		if r == '-' {
			return -1
		}
		return r
	}, uuidV4.String())
}

// EncodeOffset base64 encode the offset value
func EncodeOffset(value int) string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%d", "offset", value)))
}

// EncodeCursor base64 encode the cursor value
func EncodeCursor(value string) string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%s", "next_cursor", value)))
}

// RandString generates a random string of size n
func RandString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Int63()%int64(len(alphabet))]
	}
	return string(b)
}

func init() {
	rand.Seed(time.Now().UnixNano())
}

// Max returns the larger of x or y.
func Max(x, y int) int {
	if x < y {
		return y
	}
	return x
}

// Min returns the smaller of x or y.
func Min(x, y int) int {
	if x > y {
		return y
	}
	return x
}

// AddMultipleFilters forms the IN query statements
func AddMultipleFilters(argType string, params []string,
	args map[string]interface{}) (inClause string, arg map[string]interface{}) {
	inClause = ""
	for i := range params {
		p := argType + strconv.Itoa(i)
		inClause += ":" + p
		if inClause != "" {
			inClause += `,`
		}
		args[p] = params[i]
	}
	inClause = inClause[:len(inClause)-1]
	return inClause, args
}

// SanitizeFilename strips path separators and leading dots from an
// uploaded file name.
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	return strings.TrimLeft(name, ".")
}

func Chunk(chunkSize, total int, fn func(start int, end int) error) error {
	for i := 0; i < total; i += chunkSize {
		end := i + chunkSize
		if end > total {
			end = total
		}
		if err := fn(i, end); err != nil {
			return err
		}
	}
	return nil
}
