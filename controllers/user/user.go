package userController

import (
	"context"
	"log"

	"roamready/config"
	"roamready/middleware"
	"roamready/models"
	"roamready/store"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is what the handlers need from the storage layer.
type UserStore interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

type Controller struct {
	store UserStore
}

func New(s UserStore) *Controller {
	return &Controller{store: s}
}

// Signup registers a new user with a bcrypt-hashed password.
func (ctl *Controller) Signup(c *fiber.Ctx) error {
	reqData := new(struct {
		Username       string `json:"username"`
		Password       string `json:"password"`
		ProfilePicture string `json:"profilePicture"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser, err := ctl.store.Create(c.Context(), models.User{
		Username:       reqData.Username,
		Password:       string(hashedPassword),
		ProfilePicture: reqData.ProfilePicture,
	})
	if err != nil {
		if store.IsDuplicate(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Username is already registered!", nil)
		}
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

// Login verifies credentials and returns a signed token.
func (ctl *Controller) Login(c *fiber.Ctx) error {
	reqData := new(struct {
		Username string `json:"username"`
		Password string `json:"password"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	user, err := ctl.store.GetByUsername(c.Context(), reqData.Username)
	if err != nil {
		if store.IsNotFound(err) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid username or password!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid username or password!", nil)
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.Username)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated user's own profile.
func (ctl *Controller) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(string)
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
	}

	user, err := ctl.store.GetByID(c.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User profile fetched!", user)
}
