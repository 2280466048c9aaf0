package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	conndomain "github.com/thamiresml/thracker-sub002/internal/connection/domain"
	"github.com/thamiresml/thracker-sub002/internal/connection/repository"
	"github.com/thamiresml/thracker-sub002/pkg/config"
	"github.com/thamiresml/thracker-sub002/pkg/gmail"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Refresh this far ahead of expiry so a token never dies mid-request.
const tokenSafetyMargin = 5 * time.Minute

// Authorization flows older than this are rejected on callback.
const stateTTL = 10 * time.Minute

// connectionUsecase implements ConnectionUsecase interface
type connectionUsecase struct {
	connRepo repository.ConnectionRepository
	oauth    GoogleOAuth
	config   *config.Config
}

// NewConnectionUsecase creates a new instance of connectionUsecase
func NewConnectionUsecase(connRepo repository.ConnectionRepository, oauth GoogleOAuth, cfg *config.Config) ConnectionUsecase {
	return &connectionUsecase{
		connRepo: connRepo,
		oauth:    oauth,
		config:   cfg,
	}
}

func (u *connectionUsecase) AuthorizationURL(userID string) (string, error) {
	state, err := u.signState(userID)
	if err != nil {
		return "", err
	}
	return u.oauth.AuthCodeURL(state), nil
}

func (u *connectionUsecase) CompleteCallback(ctx context.Context, userID, state, code string) (*conndomain.Connection, error) {
	if err := u.verifyState(state, userID); err != nil {
		return nil, err
	}

	token, err := u.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	// A connection without a refresh token can never sync again once the
	// access token expires. Reject the flow before persisting anything.
	if token.RefreshToken == "" {
		return nil, errors.New("provider did not grant a refresh token, please reconnect and approve offline access")
	}

	address, err := u.oauth.Profile(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("profile fetch failed: %w", err)
	}
	address = strings.ToLower(address)

	scope, _ := token.Extra("scope").(string)

	existing, err := u.connRepo.FindByUserAndAddress(userID, address)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		// Reconnect: update the row in place, same id.
		existing.AccessToken = token.AccessToken
		existing.RefreshToken = token.RefreshToken
		existing.TokenExpiry = token.Expiry
		existing.Scope = scope
		existing.IsActive = true
		if err := u.connRepo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	conn := &conndomain.Connection{
		UserID:       userID,
		EmailAddress: address,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
		Scope:        scope,
		IsActive:     true,
	}
	if err := u.connRepo.Create(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

func (u *connectionUsecase) Disconnect(ctx context.Context, userID, connectionID string) error {
	conn, err := u.GetConnection(userID, connectionID)
	if err != nil {
		return err
	}

	// Revocation is best effort. The local row reflects the user's intent to
	// disconnect and is removed regardless of the provider outcome.
	if err := u.oauth.Revoke(ctx, conn.AccessToken); err != nil {
		log.Printf("[connection] revoke failed for %s: %v", conn.EmailAddress, err)
	}

	return u.connRepo.Delete(conn.ID)
}

func (u *connectionUsecase) ListConnections(userID string) ([]*conndomain.Connection, error) {
	return u.connRepo.FindAllByUser(userID)
}

func (u *connectionUsecase) GetConnection(userID, connectionID string) (*conndomain.Connection, error) {
	conn, err := u.connRepo.FindByID(connectionID)
	if err != nil {
		return nil, err
	}
	if conn == nil || conn.UserID != userID {
		return nil, errors.New("connection not found")
	}
	return conn, nil
}

func (u *connectionUsecase) EnsureFreshToken(ctx context.Context, conn *conndomain.Connection) (string, error) {
	if time.Until(conn.TokenExpiry) > tokenSafetyMargin {
		return conn.AccessToken, nil
	}
	return u.ForceRefresh(ctx, conn)
}

func (u *connectionUsecase) ForceRefresh(ctx context.Context, conn *conndomain.Connection) (string, error) {
	if conn.RefreshToken == "" {
		return "", fmt.Errorf("%w: connection has no refresh token", gmail.ErrAuthExpired)
	}

	token, err := u.oauth.Refresh(ctx, conn.RefreshToken)
	if err != nil {
		if errors.Is(err, gmail.ErrAuthExpired) {
			// The refresh token is dead; the user must reconnect.
			if derr := u.connRepo.Deactivate(conn.ID); derr != nil {
				log.Printf("[connection] failed to deactivate %s: %v", conn.ID, derr)
			}
			conn.IsActive = false
		}
		return "", err
	}

	conn.AccessToken = token.AccessToken
	conn.TokenExpiry = token.Expiry
	if err := u.connRepo.UpdateTokens(conn.ID, token.AccessToken, token.Expiry); err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// signState issues a short-lived token binding the OAuth flow to the
// initiating user.
func (u *connectionUsecase) signState(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"nonce":   uuid.New().String(),
		"exp":     time.Now().Add(stateTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *connectionUsecase) verifyState(state, userID string) error {
	token, err := jwt.Parse(state, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return errors.New("invalid or expired state")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("invalid state claims")
	}

	stateUser, ok := claims["user_id"].(string)
	if !ok || stateUser != userID {
		return errors.New("state does not match the authenticated user")
	}
	return nil
}
