package lifecycle

import (
	"context"
	"strconv"

	"github.com/getmockd/crudcontract/pkg/scenario"
	"github.com/getmockd/crudcontract/pkg/stub"
	"github.com/getmockd/crudcontract/pkg/transport"
	"github.com/getmockd/crudcontract/pkg/users"
)

// Scenario and state names of the Users lifecycle.
const (
	UsersScenario = "User C.R.U.D. Lifecycle"

	StateCreated scenario.State = "User has been created"
	StateUpdated scenario.State = "User has been updated"
	StateDeleted scenario.State = "User has been deleted"
)

// Plan is a scenario's stubs and the ordered calls that walk it.
type Plan struct {
	Scenario string
	Stubs    []*stub.Stub
	Steps    []Step
}

// Step is one call of a plan and what its response must look like.
type Step struct {
	Name   string
	Call   func(ctx context.Context, c *users.Client) (*transport.Response, error)
	Expect Expectation
}

// Expectation describes an acceptable response. Zero fields are not checked.
type Expectation struct {
	Status int

	// Record, when set, is compared field by field with the decoded body.
	Record *users.User

	// Fields maps JSONPath expressions to expected values.
	Fields map[string]any

	// Conditions are boolean expressions over the response that must hold.
	Conditions []string

	// State is the scenario state expected after the step.
	State scenario.State
}

// UsersFixture parameterizes UsersPlan.
type UsersFixture struct {
	ID           int
	User         users.User
	UpdatedEmail string
}

// DefaultUsersFixture is the user 123 fixture.
func DefaultUsersFixture() UsersFixture {
	return UsersFixture{
		ID:           123,
		User:         users.New("test@example.com", "testuser", "pass123"),
		UpdatedEmail: "updated@example.com",
	}
}

// UsersPlan builds the six-stub create, read, update, read, delete, read
// chain for f and the steps that walk it.
func UsersPlan(f UsersFixture) Plan {
	created := f.User.WithID(f.ID)
	updated := created
	updated.Email = f.UpdatedEmail

	request := f.User
	request.ID = nil
	updateRequest := request
	updateRequest.Email = f.UpdatedEmail

	itemPath := "/users/" + strconv.Itoa(f.ID)
	jsonHeaders := map[string]string{"Content-Type": "application/json"}

	stubs := []*stub.Stub{
		{
			Name: "create user", Scenario: UsersScenario,
			Method: stub.MethodPost, PathPattern: users.CollectionPath,
			RequiredState: scenario.Started, NextState: StateCreated,
			Response: stub.Response{Status: 201, Headers: jsonHeaders, Body: string(created.MustJSON())},
		},
		{
			Name: "read created user", Scenario: UsersScenario,
			Method: stub.MethodGet, PathPattern: itemPath,
			RequiredState: StateCreated,
			Response:      stub.Response{Status: 200, Headers: jsonHeaders, Body: string(created.MustJSON())},
		},
		{
			Name: "update user", Scenario: UsersScenario,
			Method: stub.MethodPut, PathPattern: itemPath,
			RequiredState: StateCreated, NextState: StateUpdated,
			Response: stub.Response{Status: 200, Headers: jsonHeaders, Body: string(updated.MustJSON())},
		},
		{
			Name: "read updated user", Scenario: UsersScenario,
			Method: stub.MethodGet, PathPattern: itemPath,
			RequiredState: StateUpdated,
			Response:      stub.Response{Status: 200, Headers: jsonHeaders, Body: string(updated.MustJSON())},
		},
		{
			Name: "delete user", Scenario: UsersScenario,
			Method: stub.MethodDelete, PathPattern: itemPath,
			RequiredState: StateUpdated, NextState: StateDeleted,
			Response: stub.Response{Status: 200},
		},
		{
			Name: "read deleted user", Scenario: UsersScenario,
			Method: stub.MethodGet, PathPattern: itemPath,
			RequiredState: StateDeleted,
			Response:      stub.Response{Status: 404},
		},
	}

	id := f.ID
	steps := []Step{
		{
			Name: "create",
			Call: func(ctx context.Context, c *users.Client) (*transport.Response, error) {
				return c.Create(ctx, request)
			},
			Expect: Expectation{
				Status: 201,
				Record: &created,
				Fields: map[string]any{"$.id": id, "$.username": request.Username},
				State:  StateCreated,
			},
		},
		{
			Name: "read after create",
			Call: func(ctx context.Context, c *users.Client) (*transport.Response, error) {
				return c.Get(ctx, id)
			},
			Expect: Expectation{Status: 200, Record: &created, State: StateCreated},
		},
		{
			Name: "update",
			Call: func(ctx context.Context, c *users.Client) (*transport.Response, error) {
				return c.Update(ctx, id, updateRequest)
			},
			Expect: Expectation{
				Status: 200,
				Record: &updated,
				Fields: map[string]any{"$.email": f.UpdatedEmail},
				State:  StateUpdated,
			},
		},
		{
			Name: "read after update",
			Call: func(ctx context.Context, c *users.Client) (*transport.Response, error) {
				return c.Get(ctx, id)
			},
			Expect: Expectation{
				Status:     200,
				Record:     &updated,
				Conditions: []string{
					"id == " + strconv.Itoa(id) + " && email == " + strconv.Quote(f.UpdatedEmail),
				},
				State: StateUpdated,
			},
		},
		{
			Name: "delete",
			Call: func(ctx context.Context, c *users.Client) (*transport.Response, error) {
				return c.Delete(ctx, id)
			},
			Expect: Expectation{Status: 200, State: StateDeleted},
		},
		{
			Name: "read after delete",
			Call: func(ctx context.Context, c *users.Client) (*transport.Response, error) {
				return c.Get(ctx, id)
			},
			Expect: Expectation{Status: 404, State: StateDeleted},
		},
	}

	return Plan{Scenario: UsersScenario, Stubs: stubs, Steps: steps}
}
