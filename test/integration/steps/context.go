// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/billflow/backend/config"
	"github.com/billflow/backend/internal/infra/dependency"
	"github.com/billflow/backend/internal/integration/events"
	"github.com/billflow/backend/internal/integration/persistence/model"
	"github.com/billflow/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// testContext holds the per-scenario state: HTTP client, seeded ids, and the
// last response.
type testContext struct {
	uri        string
	headers    map[string]string
	client     *http.Client
	response   *response
	db         *mock.Db
	redis      *redis.Client
	provider   *mock.ApiMock
	serverPort int

	accessToken  string
	ownerID      uuid.UUID
	obligationID uuid.UUID
}

type response struct {
	status int
	body   any
}

var serverInit sync.Once
var portInit sync.Once
var testServerPort int
var testDB *mock.Db
var testProvider *mock.ApiMock
var testWorker *events.Worker

func initializePort() {
	portInit.Do(func() {
		testServerPort = findAvailablePort()
		_ = os.Setenv("SERVER_PORT", strconv.Itoa(testServerPort))
		_ = os.Setenv("ENV", "test")
		_ = os.Setenv("JWT_SECRET", testJWTSecret)
	})
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	initializePort()

	test := &testContext{
		uri:        fmt.Sprintf("http://localhost:%d", testServerPort),
		client:     &http.Client{Timeout: 10 * time.Second},
		serverPort: testServerPort,
		redis:      mock.NewRedis(),
		db: mock.NewDb("billflow", map[string]any{
			"obligations":           &model.ObligationModel{},
			"source_periods":        &model.SourcePeriodModel{},
			"periods":               &model.PeriodModel{},
			"summaries":             &model.SummaryModel{},
			"obligation_line_items": &model.LineItemModel{},
			"obligation_events":     &model.ObligationEventModel{},
		}),
	}

	testDB = test.db

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		test.before()
		return ctx, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)
	ctx.Given(`^I am authenticated as service "([^"]*)"$`, test.iAmAuthenticatedAsService)
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Calendar and provider setup steps
	ctx.Given(`^the period calendar contains a "([^"]*)" period "([^"]*)" from "([^"]*)" to "([^"]*)"$`, test.thePeriodCalendarContainsAPeriod)
	ctx.Given(`^the provider responds to a recurring sync with:$`, test.theProviderRespondsToARecurringSyncWith)

	// Request steps
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.Step(`^the event worker drains the queue$`, test.theEventWorkerDrainsTheQueue)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should not exist$`, test.theResponseFieldShouldNotExist)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
}

func (t *testContext) before() {
	t.headers = make(map[string]string)
	t.accessToken = ""
	t.ownerID = uuid.New()
	t.obligationID = uuid.Nil
	t.response = nil

	if t.db != nil {
		_ = t.db.ClearDB()
	}
	if t.redis != nil {
		_ = mock.ClearRedis(t.redis)
	}
	if testProvider != nil {
		testProvider.ClearResponses(http.MethodPost, "/transactions/recurring/get")
	}
}

// startServer boots the whole engine once: the provider mock first so its URL
// can be injected through the environment, then the wired application on top
// of the shared sqlite database.
func (t *testContext) startServer() {
	serverInit.Do(func() {
		testProvider = mock.NewApiServer()
		testProvider.Start()
		_ = os.Setenv("PROVIDER_BASE_URL", testProvider.GetUrl())

		cfg := config.Load()
		injector := dependency.NewInjector(cfg, testDB.DbConn, t.redis)
		testWorker = injector.Worker
		engine := injector.Router.Setup("test")

		go func() {
			server := &http.Server{
				Addr:    fmt.Sprintf(":%d", testServerPort),
				Handler: engine,
			}
			_ = server.ListenAndServe()
		}()
	})

	t.provider = testProvider

	// Wait for server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}
