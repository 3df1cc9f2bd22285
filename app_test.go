package gpuparticles

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_changeState(t *testing.T) {
	app := &App{
		stateful:     true,
		initialState: 1,
		state:        1,
		finalState:   2,
	}

	app.changeState(2)
	assert.Equal(t, State(2), app.nextState)
	assert.True(t, app.stateTransitioning)

	app.executeChangeState(2)
	assert.Equal(t, State(2), app.state)
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem())

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem())
}

func TestApp_addResourcesRequiresPointer(t *testing.T) {
	app := &App{resources: make(map[reflect.Type]any)}
	assert.Panics(t, func() {
		app.addResources(MockResource1{name: "value"})
	})
}

func TestResource(t *testing.T) {
	app := NewAppBuilder().Build()
	app.addResources(NewMockResource1("r1"))

	r, ok := Resource[MockResource1](app)
	require.True(t, ok)
	assert.Equal(t, "r1", r.name)

	_, ok = Resource[MockResource2](app)
	assert.False(t, ok)
}

func TestApp_callSystemInjectsResources(t *testing.T) {
	app := NewAppBuilder().Build()
	app.addResources(NewMockResource1("r1"), NewMockResource2("r2"))

	var got []string
	app.callSystem(func(a *MockResource1, b *MockResource2, cmd *Commands) {
		require.NotNil(t, cmd)
		got = append(got, a.name, b.name)
	})
	assert.Equal(t, []string{"r1", "r2"}, got)
}

func TestApp_callSystemUnresolved(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.Panics(t, func() {
		app.callSystem(func(a *MockResource1) {})
	})
	assert.Panics(t, func() {
		app.callSystem(func(a MockResource1) {})
	})
}

func TestApp_RunStatelessUntilStop(t *testing.T) {
	app := NewAppBuilder().Build()
	frames := 0
	app.UseSystem(System(func(cmd *Commands) {
		frames++
		if frames == 5 {
			cmd.Stop()
		}
	}))

	app.Run()
	assert.Equal(t, 5, frames)
}

func TestApp_RunStatefulPhases(t *testing.T) {
	app := NewAppBuilder().UseStates(StateRunning, StateStopped).Build()

	var trace []string
	app.UseSystem(System(func() { trace = append(trace, "enter running") }).InState(OnEnter(StateRunning)))
	app.UseSystem(System(func(cmd *Commands) {
		trace = append(trace, "execute running")
		cmd.Stop()
	}).InState(OnExecute(StateRunning)))
	app.UseSystem(System(func() { trace = append(trace, "exit running") }).InState(OnExit(StateRunning)))
	app.UseSystem(System(func() { trace = append(trace, "enter stopped") }).InState(OnEnter(StateStopped)))
	app.UseShutdownSystem(Finale, func() { trace = append(trace, "shutdown") })

	app.Run()

	assert.Equal(t, []string{
		"enter running",
		"execute running",
		"exit running",
		"enter stopped",
		"shutdown",
	}, trace)
	assert.Equal(t, StateStopped, app.State())
}

func TestApp_StageOrder(t *testing.T) {
	app := NewAppBuilder().Build()
	custom := Stage{Name: "Custom"}
	app.UseStage(custom, AfterStage(Update))

	var order []string
	record := func(name string) func(cmd *Commands) {
		return func(cmd *Commands) {
			order = append(order, name)
			if name == "finale" {
				cmd.Stop()
			}
		}
	}
	app.UseSystem(System(record("finale")).InStage(Finale))
	app.UseSystem(System(record("custom")).InStage(custom))
	app.UseSystem(System(record("update")))
	app.UseSystem(System(record("prelude")).InStage(Prelude))

	app.Run()
	assert.Equal(t, []string{"prelude", "update", "custom", "finale"}, order)
}

func TestApp_UseSystemPanics(t *testing.T) {
	stateless := NewAppBuilder().Build()
	assert.PanicsWithValue(t, "Stage Missing doesn't exist", func() {
		stateless.UseSystem(System(func() {}).InStage(Stage{Name: "Missing"}))
	})
	assert.PanicsWithValue(t, "Trying to use a stateful system in a stateless app.", func() {
		stateless.UseSystem(System(func() {}).InState(OnEnter(StateRunning)))
	})
	assert.Panics(t, func() {
		stateless.UseStage(Stage{Name: "Other"}, BeforeStage(Stage{Name: "Missing"}))
	})

	stateful := NewAppBuilder().UseStates(StateRunning, StateStopped).Build()
	assert.PanicsWithValue(t, "State 7 doesn't exist", func() {
		stateful.UseSystem(System(func() {}).InState(OnEnter(7)))
	})
}

func TestApp_UseShutdownSystemStatelessIgnored(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.NotPanics(t, func() {
		app.UseShutdownSystem(Finale, func() {})
	})
	assert.Empty(t, app.systemsStateless[Finale.Name])
}

func TestCommands_ChangeState(t *testing.T) {
	const (
		intro State = iota
		play
		done
	)
	app := NewAppBuilder().UseStates(intro, done).Build()

	var trace []State
	app.UseSystem(System(func(cmd *Commands) {
		trace = append(trace, app.State())
		cmd.ChangeState(play)
	}).InState(OnExecute(intro)))
	app.UseSystem(System(func(cmd *Commands) {
		trace = append(trace, app.State())
		cmd.Stop()
	}).InState(OnExecute(play)))

	app.Run()

	assert.Equal(t, []State{intro, play}, trace)
	assert.Equal(t, done, app.State())
}
