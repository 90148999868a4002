// Package coordinator runs meal companion sessions: profile lookup, a meal
// plan, and on consent a grocery list built from two forced tool calls.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"mealcompanion"
	"mealcompanion/console"
	"mealcompanion/llm"
	"mealcompanion/profile"
	"mealcompanion/tools"
)

// Gateway steps, used in step logs, spans and metrics.
const (
	StepPlan    = "plan"
	StepExtract = "extract"
	StepFormat  = "format"
)

const bannerWidth = 30

// Orchestrator owns the session pipeline. It runs one session at a time.
type Orchestrator struct {
	profiles     profile.Store
	llm          llm.Client
	toolProvider mealcompanion.ToolProvider
	console      console.Console
	pacer        Pacer
	logger       mealcompanion.StepLogger

	notifier      mealcompanion.SlackClient
	notifyChannel string
	dump          io.Writer

	tracer  trace.Tracer
	metrics *instruments
}

type Option func(*Orchestrator)

// WithNotifier posts every finished grocery list to channel.
func WithNotifier(n mealcompanion.SlackClient, channel string) Option {
	return func(o *Orchestrator) {
		o.notifier = n
		o.notifyChannel = channel
	}
}

// WithDump writes a dump of the final session state to w after every session.
func WithDump(w io.Writer) Option {
	return func(o *Orchestrator) { o.dump = w }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

func WithMeter(m metric.Meter) Option {
	return func(o *Orchestrator) { o.metrics = newInstruments(m) }
}

// NewOrchestrator wires a session pipeline. A nil pacer means no pacing and a
// nil logger discards step logs.
func NewOrchestrator(profiles profile.Store, client llm.Client, toolProvider mealcompanion.ToolProvider, con console.Console, pacer Pacer, logger mealcompanion.StepLogger, opts ...Option) *Orchestrator {
	if pacer == nil {
		pacer = FixedPacer{}
	}
	if logger == nil {
		logger = mealcompanion.NewNoOpStepLogger()
	}
	o := &Orchestrator{
		profiles:     profiles,
		llm:          client,
		toolProvider: toolProvider,
		console:      con,
		pacer:        pacer,
		logger:       logger,
		tracer:       otel.Tracer(mealcompanion.TracerNameCoordinator),
		metrics:      newInstruments(otel.Meter(mealcompanion.MeterName)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run starts sessions until the user declines another one or input ends.
func (o *Orchestrator) Run(ctx context.Context) error {
	for {
		if _, err := o.StartSession(ctx); err != nil {
			switch {
			case errors.Is(err, io.EOF):
				o.console.Println("Goodbye!")
				return nil
			case ctx.Err() != nil:
				return ctx.Err()
			}
			slog.Warn("COORDINATOR: Session aborted", "error", err)
		}

		answer, err := o.console.Ask(ctx, "\nStart another session? (y/n): ")
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if err != nil || strings.ToLower(strings.TrimSpace(answer)) != "y" {
			o.console.Println("Goodbye!")
			return nil
		}
	}
}

// StartSession runs one session with fresh state. An aborted session returns
// its state in stage Aborted together with the cause; a declined grocery list
// is a normal end.
func (o *Orchestrator) StartSession(ctx context.Context) (*SessionState, error) {
	state := NewSessionState()

	ctx, span := o.tracer.Start(ctx, "Orchestrator.StartSession",
		trace.WithAttributes(attribute.String("session.id", state.ID)))
	defer span.End()
	if o.dump != nil {
		defer mealcompanion.Dump(o.dump, "session "+state.ID, state)
	}

	o.metrics.sessionsStarted.Add(ctx, 1)
	slog.Info("COORDINATOR: Starting session", "session_id", state.ID)

	o.console.Println("\n--- Elderly Meal Companion System ---")
	answer, err := o.console.Ask(ctx, "Please enter User ID (rita/joan/li/ashley/mark): ")
	if err != nil {
		return o.abort(ctx, span, state, fmt.Errorf("read user id: %w", err))
	}
	userID := strings.ToLower(strings.TrimSpace(answer))

	p, err := o.profiles.Lookup(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, mealcompanion.ErrProfileNotFound):
			o.console.Printf("Error: User profile '%s' not found.\n", userID)
		case errors.Is(err, mealcompanion.ErrProfileDecode):
			o.console.Printf("Error: User profile '%s' could not be read.\n", userID)
		default:
			o.console.Printf("Error: Could not load user profile '%s'.\n", userID)
		}
		return o.abort(ctx, span, state, err)
	}
	state.Profile = &p
	state.Stage = ProfileLoaded
	slog.Info("COORDINATOR: Profile loaded", "session_id", state.ID, "user_id", userID)
	o.console.Printf("Welcome, %s. Profile loaded successfully.\n", p.DisplayName())

	if err := o.planMeals(ctx, state); err != nil {
		return o.abort(ctx, span, state, err)
	}

	state.Stage = AwaitingGroceryConsent
	answer, err = o.console.Ask(ctx, "\nDo you want the Grocery List for the ingredients in this 7-day meal plan? (yes/no): ")
	if err != nil {
		return o.abort(ctx, span, state, fmt.Errorf("read grocery consent: %w", err))
	}
	if !IsAffirmative(answer) {
		o.console.Println("Session ended. Have a great week!")
		return o.end(ctx, state), nil
	}

	if err := o.buildGroceryList(ctx, state); err != nil {
		return o.abort(ctx, span, state, err)
	}
	return o.end(ctx, state), nil
}

func (o *Orchestrator) planMeals(ctx context.Context, state *SessionState) error {
	o.console.Println("\nGenerating customized 7-day meal plan.")

	reply, err := o.call(ctx, state, StepPlan, llm.Request{Prompt: NewPlanPrompt(*state.Profile)})
	if err != nil {
		o.console.Printf("Error: Could not generate a meal plan: %v\n", err)
		return err
	}

	// An unconstrained call should answer in free text; any text that came
	// with a stray tool call is still the plan.
	state.LastMealPlan = reply.Text()
	state.Stage = PlanGenerated

	banner := strings.Repeat("=", bannerWidth)
	o.console.Println("\n" + banner)
	o.console.Println("7-DAY PERSONALIZED MEAL PLAN")
	o.console.Println(banner)
	o.console.Println(state.LastMealPlan)
	o.console.Println(banner)
	return nil
}

func (o *Orchestrator) buildGroceryList(ctx context.Context, state *SessionState) error {
	o.console.Println("\n--- Generating Grocery List from Meal Plan ---")

	state.Stage = ExtractingIngredients
	o.console.Println("1. Asking model to extract all unique ingredients...")
	reply, err := o.call(ctx, state, StepExtract, llm.Request{
		Prompt:     NewExtractionPrompt(state.LastMealPlan),
		Tools:      o.toolProvider.GetTools(),
		Constraint: llm.MustCall(tools.ExtractIngredientsName),
	})
	if err != nil {
		o.console.Printf("Error: Ingredient extraction call failed: %v\n", err)
		return err
	}

	extraction, ok := reply.(llm.ExtractionCall)
	if !ok {
		o.console.Println("Failed to extract ingredients from meal plan. Cannot create grocery list.")
		o.printDiagnostic(reply)
		return missingInvocation(tools.ExtractIngredientsName, reply)
	}
	if len(extraction.Ingredients) == 0 {
		o.console.Println("Failed to extract ingredients from meal plan. Cannot create grocery list.")
		return fmt.Errorf("%s: %w", tools.ExtractIngredientsName, mealcompanion.ErrEmptyExtraction)
	}
	state.Ingredients = extraction.Ingredients
	o.console.Printf("Extracted %d ingredients.\n", len(state.Ingredients))

	state.Stage = FormattingList
	o.console.Println("2. Formatting the final grocery list...")
	reply, err = o.call(ctx, state, StepFormat, llm.Request{
		Prompt:     NewFormattingPrompt(state.Ingredients),
		Tools:      o.toolProvider.GetTools(),
		Constraint: llm.MustCall(tools.CompileGroceryListName),
	})
	if err != nil {
		o.console.Println("Error: Final tool call failed. Could not format grocery list.")
		o.printDiagnostic(reply)
		return err
	}

	formatting, ok := reply.(llm.FormattingCall)
	if !ok {
		o.console.Println("Error: Final tool call failed. Could not format grocery list.")
		o.printDiagnostic(reply)
		return missingInvocation(tools.CompileGroceryListName, reply)
	}

	list, err := o.runFormatting(ctx, state, formatting)
	if err != nil {
		o.console.Println("Error: Final tool call failed. Could not format grocery list.")
		return err
	}
	state.GroceryList = list

	o.console.Println("\n[Tool Output - Customized Grocery List]:")
	o.console.Println(list)
	o.notify(ctx, state)
	return nil
}

// runFormatting executes the grocery list tool locally with the model's
// arguments, falling back to the extracted ingredients and default servings.
func (o *Orchestrator) runFormatting(ctx context.Context, state *SessionState, call llm.FormattingCall) (string, error) {
	items := call.Items
	if !call.HasItems {
		items = state.Ingredients
	}
	servings := tools.DefaultServings
	if call.HasServings {
		servings = call.Servings
	}

	tool, err := o.toolProvider.GetTool(tools.CompileGroceryListName)
	if err != nil {
		return "", err
	}

	start := time.Now()
	out, err := tool.Run(ctx, map[string]any{"items": items, "servings": servings})
	stepLog := mealcompanion.StepLog{
		SessionID: state.ID,
		Step:      "compile_grocery_list",
		Timestamp: start,
		ToolNames: []string{tool.Name()},
		Duration:  time.Since(start),
	}
	if err != nil {
		stepLog.Error = err.Error()
		o.logStep(stepLog)
		return "", fmt.Errorf("run %s: %w", tool.Name(), err)
	}

	list, _ := out["grocery_list"].(string)
	stepLog.ToolOutput = list
	o.logStep(stepLog)
	return list, nil
}

// call sends one request to the model gateway, pacing it behind any earlier
// call of the same session. Failures are wrapped in ErrGatewayCallFailed and
// never retried.
func (o *Orchestrator) call(ctx context.Context, state *SessionState, step string, req llm.Request) (llm.Reply, error) {
	if state.gatewayCalls > 0 {
		if err := o.pacer.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s: pacing: %w", step, err)
		}
	}
	state.gatewayCalls++

	ctx, span := o.tracer.Start(ctx, "Orchestrator."+step, trace.WithAttributes(
		attribute.String("session.id", state.ID),
		attribute.String("constraint", req.Constraint.Mode.String()),
		attribute.StringSlice("tool_names", req.Constraint.ToolNames),
		attribute.Int("prompt_size_bytes", len(req.Prompt)),
	))
	defer span.End()

	slog.Info("COORDINATOR: Sending prompt to LLM",
		"session_id", state.ID,
		"step", step,
		"constraint", req.Constraint.Mode.String(),
		"prompt_size_bytes", len(req.Prompt),
	)

	start := time.Now()
	reply, err := o.llm.Call(ctx, req)
	duration := time.Since(start)

	stepAttr := metric.WithAttributes(attribute.String("step", step))
	o.metrics.gatewayCalls.Add(ctx, 1, stepAttr)
	o.metrics.gatewayDuration.Record(ctx, duration.Seconds(), stepAttr)

	stepLog := mealcompanion.StepLog{
		SessionID: state.ID,
		Step:      step,
		Timestamp: start,
		Prompt:    req.Prompt,
		ToolNames: req.Constraint.ToolNames,
		Reply:     reply,
		Duration:  duration,
	}

	if err != nil {
		stepLog.Error = err.Error()
		o.logStep(stepLog)
		span.SetStatus(codes.Error, "gateway call failed")
		span.RecordError(err)
		slog.Error("COORDINATOR: LLM call failed", "session_id", state.ID, "step", step, "error", err)
		return nil, fmt.Errorf("%s: %w: %w", step, mealcompanion.ErrGatewayCallFailed, err)
	}
	o.logStep(stepLog)

	slog.Info("COORDINATOR: LLM response received",
		"session_id", state.ID,
		"step", step,
		"tool", llm.ToolName(reply),
		"content_length", len(reply.Text()),
		"duration", duration,
	)
	return reply, nil
}

func (o *Orchestrator) printDiagnostic(reply llm.Reply) {
	if reply == nil {
		return
	}
	if text := strings.TrimSpace(reply.Text()); text != "" {
		o.console.Println(text)
	}
}

func (o *Orchestrator) notify(ctx context.Context, state *SessionState) {
	if o.notifier == nil {
		return
	}
	name := mealcompanion.DefaultProfileName
	if state.Profile != nil {
		name = state.Profile.DisplayName()
	}
	msg := fmt.Sprintf("Grocery list for %s:\n```\n%s\n```", name, state.GroceryList)
	if err := o.notifier.PostMessage(ctx, o.notifyChannel, msg); err != nil {
		slog.Error("COORDINATOR: Failed to post grocery list", "session_id", state.ID, "channel", o.notifyChannel, "error", err)
		return
	}
	slog.Info("COORDINATOR: Grocery list posted", "session_id", state.ID, "channel", o.notifyChannel)
}

func (o *Orchestrator) end(ctx context.Context, state *SessionState) *SessionState {
	state.Stage = SessionEnded
	o.metrics.sessionsCompleted.Add(ctx, 1)
	slog.Info("COORDINATOR: Session ended", "session_id", state.ID, "duration", time.Since(state.StartedAt))
	return state
}

func (o *Orchestrator) abort(ctx context.Context, span trace.Span, state *SessionState, err error) (*SessionState, error) {
	state.Stage = Aborted
	state.Err = err
	o.metrics.sessionsAborted.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", abortReason(err))))
	span.SetStatus(codes.Error, "session aborted")
	span.RecordError(err)
	slog.Info("COORDINATOR: Session aborted", "session_id", state.ID, "reason", abortReason(err), "error", err)
	return state, err
}

func (o *Orchestrator) logStep(step mealcompanion.StepLog) {
	if err := o.logger.LogStep(step); err != nil {
		slog.Error("Failed to log session step", "error", err, "step", step.Step)
	}
}

func missingInvocation(want string, reply llm.Reply) error {
	got := llm.ToolName(reply)
	if got == "" {
		got = "free text"
	}
	return fmt.Errorf("expected %s, got %s: %w", want, got, mealcompanion.ErrToolInvocationMissing)
}

func abortReason(err error) string {
	switch {
	case errors.Is(err, mealcompanion.ErrProfileNotFound):
		return "profile_not_found"
	case errors.Is(err, mealcompanion.ErrProfileDecode):
		return "profile_decode"
	case errors.Is(err, mealcompanion.ErrGatewayCallFailed):
		return "gateway_call_failed"
	case errors.Is(err, mealcompanion.ErrToolInvocationMissing):
		return "tool_invocation_missing"
	case errors.Is(err, mealcompanion.ErrEmptyExtraction):
		return "empty_extraction"
	case errors.Is(err, io.EOF):
		return "input_closed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}
