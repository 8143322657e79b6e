package controllers

import (
	"errors"
	"net/http"

	"go-food-ordering/database"
	"go-food-ordering/helpers"
	"go-food-ordering/logger"
	"go-food-ordering/middleware"
	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserController struct {
	access
	tokens     TokenIssuer
	bcryptCost int
	log        logger.Logger
}

func NewUserController(deps Dependencies) *UserController {
	return &UserController{
		access: access{
			users:       deps.Users,
			companies:   deps.Companies,
			restaurants: deps.Restaurants,
		},
		tokens:     deps.Tokens,
		bcryptCost: deps.BcryptCost,
		log:        deps.Log,
	}
}

type loginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	CompanyID string `json:"companyId" validate:"omitempty,len=24,hexadecimal"`
}

type signUpRequest struct {
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Profile   string `json:"profile" validate:"omitempty,url"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login checks the credentials and, when a company is picked, that the user
// belongs to it. The issued token is scoped to that company.
func (uc *UserController) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, "Email and password are required")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := uc.users.FindByEmail(ctx, req.Email)
		if err != nil {
			if isNotFound(err) {
				respondMessage(c, http.StatusUnauthorized, "Invalid email or password")
				return
			}
			internalError(c, uc.log, "login", err)
			return
		}
		if !helpers.VerifyPassword(req.Password, user.HashedPassword) {
			respondMessage(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}

		tenant := ""
		if req.CompanyID != "" {
			companyID, _ := primitive.ObjectIDFromHex(req.CompanyID)
			member := user.BelongsTo(companyID)
			if !member {
				member, err = uc.managesCompany(ctx, user.ID, companyID)
				if err != nil {
					internalError(c, uc.log, "login", err)
					return
				}
			}
			if !member {
				respondMessage(c, http.StatusNotFound, "Account is not a member of this company")
				return
			}
			tenant = companyID.Hex()
		}

		token, err := uc.tokens.GenerateToken(user, tenant)
		if err != nil {
			internalError(c, uc.log, "login", err)
			return
		}
		c.JSON(http.StatusOK, authResponse{Token: token, User: user})
	}
}

func (uc *UserController) SignUp() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signUpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, err.Error())
			return
		}

		hashed, err := helpers.HashPassword(req.Password, uc.bcryptCost)
		if err != nil {
			internalError(c, uc.log, "sign up", err)
			return
		}
		user := &models.User{
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			Email:          req.Email,
			HashedPassword: hashed,
			Profile:        req.Profile,
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := uc.users.Create(ctx, user); err != nil {
			if errors.Is(err, database.ErrDuplicateEmail) {
				respondMessage(c, http.StatusConflict, "Email already registered")
				return
			}
			internalError(c, uc.log, "sign up", err)
			return
		}

		token, err := uc.tokens.GenerateToken(user, "")
		if err != nil {
			internalError(c, uc.log, "sign up", err)
			return
		}
		c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
	}
}

// GetMe returns the caller's profile.
func (uc *UserController) GetMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			respondMessage(c, http.StatusUnauthorized, "Invalid Token")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := uc.users.FindByID(ctx, userID)
		if err != nil {
			if isNotFound(err) {
				respondMessage(c, http.StatusNotFound, "User not found")
				return
			}
			internalError(c, uc.log, "get user", err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
