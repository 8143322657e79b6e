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
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListPublicCompanies(t *testing.T) {
	t.Run("hides members", func(t *testing.T) {
		d := newTestDeps()
		acme := models.Company{ID: primitive.NewObjectID(), Name: "Acme", Logo: "https://img.test/acme.png", Members: []primitive.ObjectID{primitive.NewObjectID()}}
		d.companies.On("FindAll", mock.Anything).Return([]models.Company{acme}, nil)

		c, w := newTestContext(http.MethodGet, "/auth/companies", "", session{}, nil)
		NewCompanyController(d.dependencies()).ListPublicCompanies()(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"companies":[{"_id":"`+acme.ID.Hex()+`","name":"Acme","logo":"https://img.test/acme.png"}]}`, w.Body.String())
	})

	t.Run("empty list", func(t *testing.T) {
		d := newTestDeps()
		d.companies.On("FindAll", mock.Anything).Return([]models.Company{}, nil)

		c, w := newTestContext(http.MethodGet, "/auth/companies", "", session{}, nil)
		NewCompanyController(d.dependencies()).ListPublicCompanies()(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"companies":[]}`, w.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		d := newTestDeps()
		d.companies.On("FindAll", mock.Anything).Return(nil, errors.New("server selection timeout"))

		c, w := newTestContext(http.MethodGet, "/auth/companies", "", session{}, nil)
		NewCompanyController(d.dependencies()).ListPublicCompanies()(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetMyCompanies(t *testing.T) {
	user := primitive.NewObjectID()

	t.Run("none", func(t *testing.T) {
		d := newTestDeps()
		d.companies.On("FindForMember", mock.Anything, user).Return([]models.Company{}, nil)

		c, w := newTestContext(http.MethodGet, "/companies", "", session{userID: user}, nil)
		NewCompanyController(d.dependencies()).GetMyCompanies()(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("lists memberships", func(t *testing.T) {
		d := newTestDeps()
		d.companies.On("FindForMember", mock.Anything, user).Return([]models.Company{
			{ID: primitive.NewObjectID(), Name: "Acme", Members: []primitive.ObjectID{user}},
		}, nil)

		c, w := newTestContext(http.MethodGet, "/companies", "", session{userID: user}, nil)
		NewCompanyController(d.dependencies()).GetMyCompanies()(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Acme"`)
	})
}

func TestGetCompany(t *testing.T) {
	user := primitive.NewObjectID()
	company := primitive.NewObjectID()
	params := gin.Params{{Key: "companyId", Value: company.Hex()}}

	t.Run("member", func(t *testing.T) {
		d := newTestDeps()
		d.companies.On("FindManaged", mock.Anything, company, user).Return(&models.Company{ID: company, Name: "Acme"}, nil)

		c, w := newTestContext(http.MethodGet, "/companies/x", "", session{userID: user}, params)
		NewCompanyController(d.dependencies()).GetCompany()(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not a member", func(t *testing.T) {
		d := newTestDeps()
		d.companies.On("FindManaged", mock.Anything, company, user).Return(nil, database.ErrNotFound)

		c, w := newTestContext(http.MethodGet, "/companies/x", "", session{userID: user}, params)
		NewCompanyController(d.dependencies()).GetCompany()(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Account does not manage this company"}`, w.Body.String())
	})

	t.Run("invalid id", func(t *testing.T) {
		d := newTestDeps()
		c, w := newTestContext(http.MethodGet, "/companies/x", "", session{userID: user}, gin.Params{{Key: "companyId", Value: "acme"}})
		NewCompanyController(d.dependencies()).GetCompany()(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
