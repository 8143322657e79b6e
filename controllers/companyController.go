package controllers

import (
	"net/http"

	"go-food-ordering/logger"

	"github.com/gin-gonic/gin"
)

type CompanyController struct {
	companies CompanyStore
	log       logger.Logger
}

func NewCompanyController(deps Dependencies) *CompanyController {
	return &CompanyController{companies: deps.Companies, log: deps.Log}
}

type publicCompany struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// ListPublicCompanies feeds the company picker shown before login. Members
// are never exposed.
func (cc *CompanyController) ListPublicCompanies() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		companies, err := cc.companies.FindAll(ctx)
		if err != nil {
			internalError(c, cc.log, "list companies", err)
			return
		}

		out := make([]publicCompany, 0, len(companies))
		for _, company := range companies {
			out = append(out, publicCompany{ID: company.ID.Hex(), Name: company.Name, Logo: company.Logo})
		}
		c.JSON(http.StatusOK, gin.H{"companies": out})
	}
}

// GetMyCompanies lists the companies the caller manages.
func (cc *CompanyController) GetMyCompanies() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		companies, err := cc.companies.FindForMember(ctx, userID)
		if err != nil {
			internalError(c, cc.log, "list companies", err)
			return
		}
		if len(companies) == 0 {
			c.JSON(http.StatusNoContent, gin.H{"message": "No Companies."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"companies": companies})
	}
}

func (cc *CompanyController) GetCompany() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, ok := objectIDParam(c, "companyId")
		if !ok {
			respondMessage(c, http.StatusBadRequest, "Company ID is required")
			return
		}
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		company, err := cc.companies.FindManaged(ctx, companyID, userID)
		if err != nil {
			if isNotFound(err) {
				respondMessage(c, http.StatusNotFound, "Account does not manage this company")
				return
			}
			internalError(c, cc.log, "get company", err)
			return
		}
		c.JSON(http.StatusOK, company)
	}
}
