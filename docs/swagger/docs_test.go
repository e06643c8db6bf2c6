package swagger_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	_ "listing-manager/docs/swagger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocJSON_ServesListingRoutes(t *testing.T) {
	app := fiber.New()
	app.Get("/swagger/*", swagger.HandlerDefault)

	resp, err := app.Test(httptest.NewRequest("GET", "/swagger/doc.json", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths       map[string]map[string]any `json:"paths"`
		Definitions map[string]any            `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal(body, &doc))

	assert.Equal(t, "Listing Manager API", doc.Info.Title)
	assert.Contains(t, doc.Paths["/listings"], "get")
	assert.Contains(t, doc.Paths["/listings/queue"], "get")
	assert.Contains(t, doc.Paths["/listings/flush"], "post")
	assert.Contains(t, doc.Definitions, "listings.QueueState")
	assert.Contains(t, doc.Definitions, "listings.FlushResult")
}
