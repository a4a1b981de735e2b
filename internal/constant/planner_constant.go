package constant

// Pipeline stages. The planner session moves through these in the order
// defined by the transition graph in service.PlannerService.
const (
	StageInputProcessing     = "INPUT_PROCESSING"
	StageConfirmationPending = "CONFIRMATION_PENDING"
	StageContextGathering    = "CONTEXT_GATHERING"
	StageGenerating          = "GENERATING"
	StageComplete            = "COMPLETE"
	StageError               = "ERROR"
)

// Pipeline error codes surfaced on the state record.
const (
	ErrCodeExtraction = "extraction_error"
	ErrCodeWeather    = "weather_error"
	ErrCodeGeneration = "generation_error"
	ErrCodeNetwork    = "network_error"
	ErrCodeValidation = "validation_error"
)

// Response envelope error codes (outer API surface).
const (
	EnvelopeGenerationError       = "GENERATION_ERROR"
	EnvelopeParseError            = "PARSE_ERROR"
	EnvelopeOutfitGenerationError = "OUTFIT_GENERATION_ERROR"
	EnvelopeAgentNotFound         = "AGENT_NOT_FOUND"
	EnvelopeAccessDenied          = "ACCESS_DENIED"
	EnvelopeAgentError            = "AGENT_ERROR"
	EnvelopeDemoGenerationError   = "DEMO_GENERATION_ERROR"
)

// Context file processing stages, advanced monotonically by the accumulator.
const (
	ProcessingInitialized      = "initialized"
	ProcessingDetailsExtracted = "details_extracted"
	ProcessingDetailsConfirmed = "details_confirmed"
	ProcessingWeatherGathered  = "weather_gathered"
)

// Persistent keyed store prefixes. One entry per session id under each.
const (
	StoreKeyPipelineState = "outfit_pipeline_state"
	StoreKeyContextFiles  = "outfit_context_files"
)

// Recognized dress codes, most casual first.
const (
	DressCodeCasual      = "casual"
	DressCodeSmartCasual = "smart-casual"
	DressCodeBusiness    = "business"
	DressCodeFormal      = "formal"
	DressCodeBlackTie    = "black-tie"
)

// Trip duration bounds. Durations above the cap are clamped during validation.
const (
	DefaultTripDuration = 1
	MaxTripDuration     = 14
)

// Watermill topics for pipeline events.
const (
	TopicStageChanged  = "planner.stage_changed"
	TopicPlanCompleted = "planner.plan_completed"
)
