// Package services wraps the remote chat functions in typed calls and
// coordinates the session and two-step workflow state around them.
package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/postapp/internal/client/client"
	"github.com/dmitrijs2005/postapp/internal/client/models"
	"github.com/dmitrijs2005/postapp/internal/common"
)

// ChatService is one typed call per remote function. Input is validated
// locally before anything is sent.
type ChatService interface {
	GetPosts(ctx context.Context, limit int) ([]models.Post, error)
	SignIn(ctx context.Context, userName, password string) (AuthResult, error)
	AddPost(ctx context.Context, accessToken, message string) error
	DeletePost(ctx context.Context, accessToken, postID string) error
	DeleteUser(ctx context.Context, accessToken string) error
	StartRegistration(ctx context.Context, userName, password, email string) error
	FinishRegistration(ctx context.Context, userName, code string) error
	StartPasswordReset(ctx context.Context, userName string) error
	FinishPasswordReset(ctx context.Context, userName, code, newPassword string) error
}

// AuthResult is the token set returned by a successful sign-in.
type AuthResult struct {
	AccessToken  string `json:"AccessToken"`
	RefreshToken string `json:"RefreshToken"`
	ExpiresIn    int    `json:"ExpiresIn"`
	TokenType    string `json:"TokenType"`
	IdToken      string `json:"IdToken"`
}

type getPostsRequest struct {
	SortBy     string
	SortOrder  string
	PostsToGet int
}

type signInRequest struct {
	UserName string
	Password string
}

type signInData struct {
	AuthenticationResult AuthResult `json:"AuthenticationResult"`
}

type addPostRequest struct {
	AccessToken string
	Message     string
}

type deletePostRequest struct {
	AccessToken     string
	TimestampOfPost string
}

type deleteUserRequest struct {
	AccessToken string
}

type startRegistrationRequest struct {
	UserName string
	Password string
	Email    string
}

type finishRegistrationRequest struct {
	UserName         string
	ConfirmationCode string
}

type startPasswordResetRequest struct {
	UserName string
}

type finishPasswordResetRequest struct {
	UserName         string
	ConfirmationCode string
	NewPassword      string
}

// Caller is the call surface of *client.Caller.
type Caller interface {
	CallAndClassify(ctx context.Context, action string, request any) ([]byte, error)
}

var errNoAccessToken = errors.New("no access token in response")

type chatService struct {
	caller Caller
}

func NewChatService(caller Caller) ChatService {
	return &chatService{caller: caller}
}

func (c *chatService) GetPosts(ctx context.Context, limit int) ([]models.Post, error) {
	if limit <= 0 {
		return nil, &common.ValidationError{Field: "max messages", Reason: "must be positive"}
	}

	data, err := c.caller.CallAndClassify(ctx, client.ActionGetPosts, getPostsRequest{
		SortBy:     "timestamp",
		SortOrder:  "descending",
		PostsToGet: limit,
	})
	if err != nil {
		return nil, err
	}

	posts, err := models.DecodePosts(data)
	if err != nil {
		return nil, &client.MalformedResponseError{Action: client.ActionGetPosts, Err: err}
	}
	return posts, nil
}

func (c *chatService) SignIn(ctx context.Context, userName, password string) (AuthResult, error) {
	if err := common.FirstError(
		common.Required("user name", userName),
		common.Required("password", password),
	); err != nil {
		return AuthResult{}, err
	}

	data, err := c.caller.CallAndClassify(ctx, client.ActionSignIn, signInRequest{UserName: userName, Password: password})
	if err != nil {
		return AuthResult{}, err
	}

	var d signInData
	if err := json.Unmarshal(data, &d); err != nil {
		return AuthResult{}, &client.MalformedResponseError{Action: client.ActionSignIn, Err: err}
	}
	if d.AuthenticationResult.AccessToken == "" {
		return AuthResult{}, &client.MalformedResponseError{
			Action: client.ActionSignIn,
			Err:    errNoAccessToken,
		}
	}
	return d.AuthenticationResult, nil
}

func (c *chatService) AddPost(ctx context.Context, accessToken, message string) error {
	if err := common.FirstError(
		common.Required("access token", accessToken),
		common.Required("message", message),
	); err != nil {
		return err
	}
	_, err := c.caller.CallAndClassify(ctx, client.ActionAddPost, addPostRequest{AccessToken: accessToken, Message: message})
	return err
}

func (c *chatService) DeletePost(ctx context.Context, accessToken, postID string) error {
	if err := common.FirstError(
		common.Required("access token", accessToken),
		common.Required("post id", postID),
	); err != nil {
		return err
	}
	_, err := c.caller.CallAndClassify(ctx, client.ActionDeletePost, deletePostRequest{AccessToken: accessToken, TimestampOfPost: postID})
	return err
}

func (c *chatService) DeleteUser(ctx context.Context, accessToken string) error {
	if err := common.Required("access token", accessToken); err != nil {
		return err
	}
	_, err := c.caller.CallAndClassify(ctx, client.ActionDeleteUser, deleteUserRequest{AccessToken: accessToken})
	return err
}

func (c *chatService) StartRegistration(ctx context.Context, userName, password, email string) error {
	if err := common.FirstError(
		common.Required("user name", userName),
		common.CheckPassword("password", password),
		common.Required("email", email),
	); err != nil {
		return err
	}
	_, err := c.caller.CallAndClassify(ctx, client.ActionStartRegistration, startRegistrationRequest{
		UserName: userName,
		Password: password,
		Email:    email,
	})
	return err
}

func (c *chatService) FinishRegistration(ctx context.Context, userName, code string) error {
	if err := common.FirstError(
		common.Required("user name", userName),
		common.Required("confirmation code", code),
	); err != nil {
		return err
	}
	_, err := c.caller.CallAndClassify(ctx, client.ActionFinishRegistration, finishRegistrationRequest{
		UserName:         userName,
		ConfirmationCode: code,
	})
	return err
}

func (c *chatService) StartPasswordReset(ctx context.Context, userName string) error {
	if err := common.Required("user name", userName); err != nil {
		return err
	}
	_, err := c.caller.CallAndClassify(ctx, client.ActionStartPasswordReset, startPasswordResetRequest{UserName: userName})
	return err
}

func (c *chatService) FinishPasswordReset(ctx context.Context, userName, code, newPassword string) error {
	if err := common.FirstError(
		common.Required("user name", userName),
		common.Required("confirmation code", code),
		common.CheckPassword("new password", newPassword),
	); err != nil {
		return err
	}
	_, err := c.caller.CallAndClassify(ctx, client.ActionFinishPasswordReset, finishPasswordResetRequest{
		UserName:         userName,
		ConfirmationCode: code,
		NewPassword:      newPassword,
	})
	return err
}
