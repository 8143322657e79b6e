package controllers

import (
	"errors"
	"net/http"
	"testing"

	"go-food-ordering/database"
	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateMenuItem(t *testing.T) {
	f := newFixture()
	params := gin.Params{{Key: "restaurantId", Value: f.noodle.ID.Hex()}}

	t.Run("member adds an item", func(t *testing.T) {
		d := newTestDeps()
		d.restaurants.On("FindManaged", mock.Anything, f.noodle.ID, f.manager).Return(&f.noodle, nil)
		d.restaurants.On("AddMenuItem", mock.Anything, f.noodle.ID, mock.MatchedBy(func(item *models.MenuItem) bool {
			return item.Name == "Udon" && item.Price == 11.99 && item.Available
		})).Return(nil)

		c, w := newTestContext(http.MethodPost, "/restaurants/x/menu", `{"name":"Udon","price":11.994}`, session{userID: f.manager}, params)
		NewMenuController(d.dependencies()).CreateMenuItem()(c)

		require.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Udon", body["name"])
		assert.NotEmpty(t, body["_id"])
		require.Len(t, d.notifier.messages, 1)
		assert.Equal(t, "menuUpdated", d.notifier.messages[0].Event)
		assert.Equal(t, f.tenant, d.notifier.tenants[0])
		d.assertExpectations(t)
	})

	t.Run("explicitly unavailable", func(t *testing.T) {
		d := newTestDeps()
		d.restaurants.On("FindManaged", mock.Anything, f.noodle.ID, f.manager).Return(&f.noodle, nil)
		d.restaurants.On("AddMenuItem", mock.Anything, f.noodle.ID, mock.MatchedBy(func(item *models.MenuItem) bool {
			return !item.Available
		})).Return(nil)

		c, w := newTestContext(http.MethodPost, "/restaurants/x/menu", `{"name":"Udon","price":12,"available":false}`, session{userID: f.manager}, params)
		NewMenuController(d.dependencies()).CreateMenuItem()(c)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("not a member", func(t *testing.T) {
		d := newTestDeps()
		d.restaurants.On("FindManaged", mock.Anything, f.noodle.ID, f.customer).Return(nil, database.ErrNotFound)

		c, w := newTestContext(http.MethodPost, "/restaurants/x/menu", `{"name":"Udon","price":12}`, session{userID: f.customer}, params)
		NewMenuController(d.dependencies()).CreateMenuItem()(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Account does not manage this restaurant"}`, w.Body.String())
		assert.Empty(t, d.notifier.messages)
	})

	t.Run("invalid item", func(t *testing.T) {
		for _, body := range []string{`{"price":12}`, `{"name":"Udon","price":-1}`, `[]`} {
			d := newTestDeps()
			c, w := newTestContext(http.MethodPost, "/restaurants/x/menu", body, session{userID: f.manager}, params)
			NewMenuController(d.dependencies()).CreateMenuItem()(c)

			assert.Equal(t, http.StatusBadRequest, w.Code, body)
		}
	})
}

func TestUpdateMenuItem(t *testing.T) {
	f := newFixture()
	params := gin.Params{
		{Key: "restaurantId", Value: f.noodle.ID.Hex()},
		{Key: "itemId", Value: f.soldOutID.Hex()},
	}

	t.Run("toggles availability", func(t *testing.T) {
		d := newTestDeps()
		updated := f.noodle
		updated.Menu = []models.MenuItem{{ID: f.soldOutID, Name: "Special", Price: 20, Available: true}}
		available := true

		d.restaurants.On("FindManaged", mock.Anything, f.noodle.ID, f.manager).Return(&f.noodle, nil)
		d.restaurants.On("UpdateMenuItem", mock.Anything, f.noodle.ID, f.soldOutID, models.MenuItemPatch{Available: &available}).Return(&updated, nil)

		c, w := newTestContext(http.MethodPatch, "/restaurants/x/menu/y", `{"available":true}`, session{userID: f.manager}, params)
		NewMenuController(d.dependencies()).UpdateMenuItem()(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeBody(t, w)["available"])
		assert.Len(t, d.notifier.messages, 1)
		d.assertExpectations(t)
	})

	t.Run("unknown item", func(t *testing.T) {
		d := newTestDeps()
		d.restaurants.On("FindManaged", mock.Anything, f.noodle.ID, f.manager).Return(&f.noodle, nil)
		d.restaurants.On("UpdateMenuItem", mock.Anything, f.noodle.ID, f.soldOutID, mock.Anything).Return(nil, database.ErrNotFound)

		c, w := newTestContext(http.MethodPatch, "/restaurants/x/menu/y", `{"price":3}`, session{userID: f.manager}, params)
		NewMenuController(d.dependencies()).UpdateMenuItem()(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Item not found"}`, w.Body.String())
	})

	t.Run("empty patch", func(t *testing.T) {
		d := newTestDeps()
		c, w := newTestContext(http.MethodPatch, "/restaurants/x/menu/y", `{}`, session{userID: f.manager}, params)
		NewMenuController(d.dependencies()).UpdateMenuItem()(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"Nothing to update"}`, w.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		d := newTestDeps()
		d.restaurants.On("FindManaged", mock.Anything, f.noodle.ID, f.manager).Return(&f.noodle, nil)
		d.restaurants.On("UpdateMenuItem", mock.Anything, f.noodle.ID, f.soldOutID, mock.Anything).Return(nil, errors.New("not primary"))

		c, w := newTestContext(http.MethodPatch, "/restaurants/x/menu/y", `{"name":"Chef's special"}`, session{userID: f.manager}, params)
		NewMenuController(d.dependencies()).UpdateMenuItem()(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
