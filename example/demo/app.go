package demo

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/cqrs-pipeline-go/behavior"
	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/example/features/readerregistered"
	"github.com/AntonStoeckl/cqrs-pipeline-go/example/features/registerreader"
	"github.com/AntonStoeckl/cqrs-pipeline-go/example/shared/shell"
	"github.com/AntonStoeckl/cqrs-pipeline-go/outcome"
)

type (
	registerBehavior = cqrs.Behavior[registerreader.Command, registerreader.Result]
	registerPipeline = cqrs.Pipeline[registerreader.Command, registerreader.Result]
)

// ErrNilDependency is returned when a required dependency is missing.
var ErrNilDependency = errors.New("required dependency must not be nil")

// Dependencies are the collaborators of the App. Readers and Outbox are required.
type Dependencies struct {
	Readers  shell.Readers
	Outbox   readerregistered.Outbox
	Counter  *readerregistered.RegistrationCounter
	Logger   cqrs.ContextualLogger
	Metrics  cqrs.MetricsCollector
	Tracing  cqrs.TracingCollector
	Database DatabaseBehaviors
}

// DatabaseBehaviors are the PostgreSQL behaviors, all optional.
type DatabaseBehaviors struct {
	Audit       registerBehavior
	Retry       registerBehavior
	Transaction registerBehavior
}

// App is the application service of the example.
type App struct {
	registerReader   *registerPipeline
	readerRegistered *cqrs.Publisher[readerregistered.Notification]
}

// NewApp wires the pipeline and the publisher.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Readers == nil || deps.Outbox == nil {
		return nil, ErrNilDependency
	}

	behaviors, err := buildBehaviors(deps)
	if err != nil {
		return nil, err
	}

	handler, err := registerreader.NewCommandHandler(deps.Readers)
	if err != nil {
		return nil, err
	}

	pipelineOpts := []cqrs.PipelineOption[registerreader.Command, registerreader.Result]{
		cqrs.WithBehaviors[registerreader.Command, registerreader.Result](behaviors...),
	}
	if deps.Logger != nil {
		pipelineOpts = append(pipelineOpts, cqrs.WithContextualLogger[registerreader.Command, registerreader.Result](deps.Logger))
	}

	pipeline, err := cqrs.NewPipeline[registerreader.Command, registerreader.Result](handler, pipelineOpts...)
	if err != nil {
		return nil, err
	}

	publisher, err := buildPublisher(deps)
	if err != nil {
		return nil, err
	}

	return &App{registerReader: pipeline, readerRegistered: publisher}, nil
}

func buildBehaviors(deps Dependencies) ([]registerBehavior, error) {
	observabilityOpts := []behavior.ObservabilityOption[registerreader.Command, registerreader.Result]{
		behavior.WithMetrics[registerreader.Command, registerreader.Result](deps.Metrics),
		behavior.WithTracing[registerreader.Command, registerreader.Result](deps.Tracing),
	}
	if deps.Logger != nil {
		observabilityOpts = append(observabilityOpts,
			behavior.WithContextualLogger[registerreader.Command, registerreader.Result](deps.Logger))
	}

	observability, err := behavior.NewObservability[registerreader.Command, registerreader.Result](observabilityOpts...)
	if err != nil {
		return nil, err
	}

	validation, err := behavior.NewValidation[registerreader.Command, registerreader.Result](registerreader.Validators())
	if err != nil {
		return nil, err
	}

	behaviors := []registerBehavior{
		observability,
		behavior.NewCorrelation[registerreader.Command, registerreader.Result](),
		validation,
	}

	for _, optional := range []registerBehavior{deps.Database.Audit, deps.Database.Retry, deps.Database.Transaction} {
		if optional != nil {
			behaviors = append(behaviors, optional)
		}
	}

	return behaviors, nil
}

func buildPublisher(deps Dependencies) (*cqrs.Publisher[readerregistered.Notification], error) {
	welcomeMail, err := readerregistered.NewWelcomeMailHandler(deps.Outbox, nil)
	if err != nil {
		return nil, err
	}

	counter := deps.Counter
	if counter == nil {
		counter = readerregistered.NewRegistrationCounter(deps.Metrics)
	}

	var publisherOpts []cqrs.PublisherOption[readerregistered.Notification]
	if deps.Logger != nil {
		publisherOpts = append(publisherOpts, cqrs.WithPublisherContextualLogger[readerregistered.Notification](deps.Logger))
	}

	return cqrs.NewPublisher(
		[]cqrs.NotificationHandler[readerregistered.Notification]{welcomeMail, counter},
		publisherOpts...,
	)
}

// RegisterReader sends the command through the pipeline and publishes ReaderRegistered when
// a reader was stored. The outcome is returned even if publishing failed, together with
// the publish error.
func (a *App) RegisterReader(ctx context.Context, command registerreader.Command) (registerreader.Result, error) {
	res := a.registerReader.Send(ctx, command)
	if !res.Is(outcome.CodeSuccess) {
		return res, nil
	}

	notification := readerregistered.BuildNotification(
		command.ReaderID,
		command.Name,
		shell.NormalizeEmail(command.Email),
		command.OccurredAt,
		command.ID(),
	)

	return res, a.readerRegistered.Publish(ctx, notification)
}
