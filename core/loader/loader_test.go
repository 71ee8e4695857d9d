package loader

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (f *testFeature) Name() string    { return f.name }
func (f *testFeature) IsEnabled() bool { return f.enabled }
func (f *testFeature) Load(app fiber.Router) error {
	if f.err != nil {
		return f.err
	}
	f.loaded = true
	app.Get("/"+f.name, func(c *fiber.Ctx) error { return c.SendString(f.name) })
	return nil
}

func TestManager(t *testing.T) {
	t.Run("Loads Enabled Features", func(t *testing.T) {
		app := fiber.New()
		on := &testFeature{name: "calendar", enabled: true}
		off := &testFeature{name: "ical", enabled: false}

		mgr := NewManager(nil)
		mgr.Register(on)
		mgr.Register(off)
		require.NoError(t, mgr.LoadAll(app))

		assert.True(t, on.loaded)
		assert.False(t, off.loaded)
		assert.Len(t, mgr.Features(), 2)

		resp, err := app.Test(httptest.NewRequest("GET", "/calendar", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("Stops On Failure", func(t *testing.T) {
		mgr := NewManager(nil)
		mgr.Register(&testFeature{name: "broken", enabled: true, err: errors.New("boom")})
		after := &testFeature{name: "after", enabled: true}
		mgr.Register(after)

		err := mgr.LoadAll(fiber.New())
		assert.ErrorContains(t, err, "broken")
		assert.False(t, after.loaded)
	})
}
