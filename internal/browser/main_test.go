package browser

import (
	"os"
	"testing"

	"recipebrowser/internal/templates"
)

func TestMain(m *testing.M) {
	if err := templates.Init("/static/style.test.css"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}
