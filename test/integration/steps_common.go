package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	currentUser  uint
	userIDs      map[string]uint
	ids          map[string]map[string]uint
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:      tc,
		userIDs: make(map[string]uint),
		ids:     make(map[string]map[string]uint),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset(ctx)
	})

	// Background steps
	sc.Step(`^the RBAC server is running with the default seed$`, s.theServerIsRunning)

	// Authentication steps
	sc.Step(`^I register as "([^"]*)" with password "([^"]*)"$`, s.iRegisterAs)
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogInAs)
	sc.Step(`^I am logged in as "([^"]*)" with password "([^"]*)"$`, s.iAmLoggedInAs)
	sc.Step(`^I log out$`, s.iLogOut)

	// Entity steps
	sc.Step(`^I create a (module|role|group) named "([^"]*)"$`, s.iCreateNamed)
	sc.Step(`^I create a permission "([^"]*)" on module "([^"]*)"$`, s.iCreatePermission)
	sc.Step(`^I assign permission "([^"]*)" on module "([^"]*)" to role "([^"]*)"$`, s.iAssignPermissionToRole)
	sc.Step(`^I assign role "([^"]*)" to group "([^"]*)"$`, s.iAssignRoleToGroup)
	sc.Step(`^I add user "([^"]*)" to group "([^"]*)"$`, s.iAddUserToGroup)
	sc.Step(`^I delete the (module|role|group) named "([^"]*)"$`, s.iDeleteNamed)

	// Access steps
	sc.Step(`^I check access to "([^"]*)" "([^"]*)"$`, s.iCheckAccess)
	sc.Step(`^access should be (allowed|denied)$`, s.accessShouldBe)
	sc.Step(`^I simulate access for "([^"]*)" to "([^"]*)" "([^"]*)"$`, s.iSimulateAccess)
	sc.Step(`^I list my permissions$`, s.iListMyPermissions)
	sc.Step(`^I should have (\d+) permissions?$`, s.iShouldHavePermissions)

	// Generic request steps
	sc.Step(`^I send a (GET|POST|PUT|DELETE) request to "([^"]*)"$`, s.iSendRequest)
	sc.Step(`^I send a (GET|POST|PUT|DELETE) request to "([^"]*)" with body:$`, s.iSendRequestWithBody)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response error should be "([^"]*)"$`, s.theResponseErrorShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)
}

func (s *StepsContext) theServerIsRunning() error {
	// Started once by TestContext, seeded before every scenario
	return nil
}

// do sends a request with the current token and records the response.
func (s *StepsContext) do(method, path string, payload interface{}) error {
	var body io.Reader
	switch p := payload.(type) {
	case nil:
	case string:
		body = strings.NewReader(p)
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

// expect fails unless the last response had the given status.
func (s *StepsContext) expect(status int) error {
	if s.response.StatusCode != status {
		return fmt.Errorf("%s: expected status %d, got %d: %s",
			s.response.Request.URL.Path, status, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) decode(v interface{}) error {
	if err := json.Unmarshal(s.responseBody, v); err != nil {
		return fmt.Errorf("failed to parse response %q: %w", string(s.responseBody), err)
	}
	return nil
}

// Authentication steps

func (s *StepsContext) iRegisterAs(username, password string) error {
	if err := s.do("POST", "/auth/register", map[string]string{"username": username, "password": password}); err != nil {
		return err
	}
	if s.response.StatusCode == http.StatusCreated {
		var user struct {
			ID uint `json:"id"`
		}
		if err := s.decode(&user); err != nil {
			return err
		}
		s.userIDs[strings.ToLower(username)] = user.ID
	}
	return nil
}

func (s *StepsContext) iLogInAs(username, password string) error {
	s.authToken = ""
	if err := s.do("POST", "/auth/login", map[string]string{"username": username, "password": password}); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return nil
	}

	var login struct {
		ID    uint   `json:"id"`
		Token string `json:"token"`
	}
	if err := s.decode(&login); err != nil {
		return err
	}
	if login.Token == "" {
		return fmt.Errorf("login response has no token")
	}
	s.authToken = login.Token
	s.currentUser = login.ID
	s.userIDs[strings.ToLower(username)] = login.ID
	return nil
}

func (s *StepsContext) iAmLoggedInAs(username, password string) error {
	if err := s.iLogInAs(username, password); err != nil {
		return err
	}
	return s.expect(http.StatusOK)
}

func (s *StepsContext) iLogOut() error {
	s.authToken = ""
	s.currentUser = 0
	return nil
}

// Entity steps

func (s *StepsContext) idOf(kind, name string) (uint, error) {
	if id, ok := s.ids[kind][name]; ok {
		return id, nil
	}

	// Fall back to listing, for seeded entities
	saved, savedBody := s.response, s.responseBody
	defer func() { s.response, s.responseBody = saved, savedBody }()

	if err := s.do("GET", "/"+kind+"s", nil); err != nil {
		return 0, err
	}
	if err := s.expect(http.StatusOK); err != nil {
		return 0, err
	}
	var items []struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	if err := s.decode(&items); err != nil {
		return 0, err
	}
	for _, item := range items {
		if item.Name == name {
			s.remember(kind, name, item.ID)
			return item.ID, nil
		}
	}
	return 0, fmt.Errorf("no %s named %q", kind, name)
}

func (s *StepsContext) remember(kind, name string, id uint) {
	if s.ids[kind] == nil {
		s.ids[kind] = make(map[string]uint)
	}
	s.ids[kind][name] = id
}

func (s *StepsContext) iCreateNamed(kind, name string) error {
	if err := s.do("POST", "/"+kind+"s", map[string]string{"name": name}); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusCreated {
		return nil
	}
	var created struct {
		ID uint `json:"id"`
	}
	if err := s.decode(&created); err != nil {
		return err
	}
	s.remember(kind, name, created.ID)
	return nil
}

func permissionKey(action, module string) string {
	return module + ":" + action
}

func (s *StepsContext) iCreatePermission(action, module string) error {
	moduleID, err := s.idOf("module", module)
	if err != nil {
		return err
	}
	if err := s.do("POST", "/permissions", map[string]interface{}{"action": action, "moduleId": moduleID}); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusCreated {
		return nil
	}
	var created struct {
		ID uint `json:"id"`
	}
	if err := s.decode(&created); err != nil {
		return err
	}
	s.remember("permission", permissionKey(action, module), created.ID)
	return nil
}

func (s *StepsContext) permissionID(action, module string) (uint, error) {
	if id, ok := s.ids["permission"][permissionKey(action, module)]; ok {
		return id, nil
	}
	moduleID, err := s.idOf("module", module)
	if err != nil {
		return 0, err
	}

	saved, savedBody := s.response, s.responseBody
	defer func() { s.response, s.responseBody = saved, savedBody }()

	if err := s.do("GET", fmt.Sprintf("/modules/%d/permissions", moduleID), nil); err != nil {
		return 0, err
	}
	if err := s.expect(http.StatusOK); err != nil {
		return 0, err
	}
	var perms []struct {
		ID     uint   `json:"id"`
		Action string `json:"action"`
	}
	if err := s.decode(&perms); err != nil {
		return 0, err
	}
	for _, p := range perms {
		if p.Action == action {
			s.remember("permission", permissionKey(action, module), p.ID)
			return p.ID, nil
		}
	}
	return 0, fmt.Errorf("no %s permission on module %q", action, module)
}

func (s *StepsContext) iAssignPermissionToRole(action, module, role string) error {
	permID, err := s.permissionID(action, module)
	if err != nil {
		return err
	}
	roleID, err := s.idOf("role", role)
	if err != nil {
		return err
	}
	return s.do("POST", fmt.Sprintf("/roles/%d/permissions", roleID), map[string][]uint{"permissionIds": {permID}})
}

func (s *StepsContext) iAssignRoleToGroup(role, group string) error {
	roleID, err := s.idOf("role", role)
	if err != nil {
		return err
	}
	groupID, err := s.idOf("group", group)
	if err != nil {
		return err
	}
	return s.do("POST", fmt.Sprintf("/groups/%d/roles", groupID), map[string][]uint{"roleIds": {roleID}})
}

func (s *StepsContext) iAddUserToGroup(username, group string) error {
	userID, ok := s.userIDs[strings.ToLower(username)]
	if !ok {
		return fmt.Errorf("unknown user %q: register or log in first", username)
	}
	groupID, err := s.idOf("group", group)
	if err != nil {
		return err
	}
	return s.do("POST", fmt.Sprintf("/groups/%d/users", groupID), map[string][]uint{"userIds": {userID}})
}

func (s *StepsContext) iDeleteNamed(kind, name string) error {
	id, err := s.idOf(kind, name)
	if err != nil {
		return err
	}
	return s.do("DELETE", fmt.Sprintf("/%ss/%d", kind, id), nil)
}

// Access steps

func (s *StepsContext) iCheckAccess(module, action string) error {
	return s.do("POST", "/access/check", map[string]string{"module": module, "action": action})
}

func (s *StepsContext) accessShouldBe(outcome string) error {
	if err := s.expect(http.StatusOK); err != nil {
		return err
	}
	var result struct {
		Allowed bool `json:"allowed"`
	}
	if err := s.decode(&result); err != nil {
		return err
	}
	if want := outcome == "allowed"; result.Allowed != want {
		return fmt.Errorf("expected access %s, got %s", outcome, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) iSimulateAccess(username, module, action string) error {
	userID, ok := s.userIDs[strings.ToLower(username)]
	if !ok {
		return fmt.Errorf("unknown user %q", username)
	}
	return s.do("POST", "/access/simulate", map[string]interface{}{
		"userId": userID,
		"module": module,
		"action": action,
	})
}

func (s *StepsContext) iListMyPermissions() error {
	return s.do("GET", "/access/me", nil)
}

func (s *StepsContext) iShouldHavePermissions(count int) error {
	if err := s.expect(http.StatusOK); err != nil {
		return err
	}
	var perms []json.RawMessage
	if err := s.decode(&perms); err != nil {
		return err
	}
	if len(perms) != count {
		return fmt.Errorf("expected %d permissions, got %d: %s", count, len(perms), string(s.responseBody))
	}
	return nil
}

// Generic request steps

func (s *StepsContext) iSendRequest(method, path string) error {
	return s.do(method, path, nil)
}

func (s *StepsContext) iSendRequestWithBody(method, path string, body *godog.DocString) error {
	return s.do(method, path, body.Content)
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	return s.expect(expectedStatus)
}

func (s *StepsContext) theResponseErrorShouldBe(expected string) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := s.decode(&body); err != nil {
		return err
	}
	if body.Error != expected {
		return fmt.Errorf("expected error %q, got %q", expected, body.Error)
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(text string) error {
	if !strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("expected response to contain %q, got %s", text, string(s.responseBody))
	}
	return nil
}
