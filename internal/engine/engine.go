package engine

import (
	"context"
	"sync"
	"time"

	"github.com/glitchdraft/draftsync/internal/domain"
	"github.com/glitchdraft/draftsync/internal/hub"
	"github.com/glitchdraft/draftsync/internal/identity"
	"github.com/glitchdraft/draftsync/internal/logger"
	"github.com/glitchdraft/draftsync/internal/remote"
	"github.com/glitchdraft/draftsync/internal/syncconfig"
)

// DefaultDirtyWindowGrace is how long remote echoes stay suppressed
// after a local write completes.
const DefaultDirtyWindowGrace = 3 * time.Second

// Remote is the document store surface the engine reconciles against.
type Remote interface {
	FetchDraftList(ctx context.Context, conversationID string) (domain.DraftList, error)
	ReplaceDraftList(ctx context.Context, conversationID string, list domain.DraftList) error
	DeleteDraftList(ctx context.Context, conversationID string) error
	FetchSettings(ctx context.Context) (*remote.SettingsDoc, error)
	ReplaceSettings(ctx context.Context, doc *remote.SettingsDoc) error
}

// Cache is the local write-through mirror.
type Cache interface {
	GetDraftList(ctx context.Context, conversationID string) (domain.DraftList, bool, error)
	SetDraftList(ctx context.Context, conversationID string, list domain.DraftList) error
	RemoveDraftList(ctx context.Context, conversationID string) error
	GetPositions(ctx context.Context, site string) (*domain.UIPositionSet, bool, error)
	SetPositions(ctx context.Context, site string, set *domain.UIPositionSet) error
}

// Notifier pushes events to connected overlay clients.
type Notifier interface {
	Publish(evt hub.Event)
}

// ConfigProvider reports whether the remote store is configured.
type ConfigProvider interface {
	Current() (*syncconfig.Config, bool)
}

// Engine reconciles the local cache with the remote store. One instance
// lives for the whole process; all cross-flow state (dirty windows,
// last-observed fingerprints, sync status) lives here, nowhere else.
type Engine struct {
	remote   Remote
	cache    Cache
	events   Notifier
	config   ConfigProvider
	resolver identity.Resolver
	logger   logger.Logger
	clientID string

	dirtyGrace     time.Duration
	draftsDirty    dirtyWindow
	positionsDirty dirtyWindow

	mu                 sync.Mutex
	lastDraftFP        map[string]string // conversation id -> fingerprint
	lastPosFP          map[string]string // site -> fingerprint
	posSeen            map[string]bool   // site -> observed at least once
	lastSyncTime       time.Time
	syncInProgress     bool
	activeConversation string
	activeSite         string
}

type Options struct {
	Remote   Remote
	Cache    Cache
	Events   Notifier
	Config   ConfigProvider
	Resolver identity.Resolver
	Logger   logger.Logger
	ClientID string
	// DirtyGrace overrides DefaultDirtyWindowGrace; tests shrink it.
	DirtyGrace time.Duration
}

func New(opts Options) *Engine {
	grace := opts.DirtyGrace
	if grace == 0 {
		grace = DefaultDirtyWindowGrace
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = identity.NewURLResolver()
	}
	return &Engine{
		remote:      opts.Remote,
		cache:       opts.Cache,
		events:      opts.Events,
		config:      opts.Config,
		resolver:    resolver,
		logger:      opts.Logger,
		clientID:    opts.ClientID,
		dirtyGrace:  grace,
		lastDraftFP: make(map[string]string),
		lastPosFP:   make(map[string]string),
		posSeen:     make(map[string]bool),
	}
}

// SetActivePage records which page the overlay is currently on; the
// polling loop reconciles that conversation and site until told
// otherwise.
func (e *Engine) SetActivePage(pageURL string) ActiveResult {
	conversationID, err := e.resolver.Resolve(pageURL)
	if err != nil {
		return ActiveResult{Result: fail(err)}
	}
	site := identity.SiteOf(pageURL)

	e.mu.Lock()
	e.activeConversation = conversationID
	e.activeSite = site
	e.mu.Unlock()

	e.logger.Debug("active page changed",
		logger.String("conversation", conversationID),
		logger.String("site", site))
	return ActiveResult{Result: ok(), ConversationID: conversationID, Site: site}
}

// Active returns the conversation and site the background loops watch.
func (e *Engine) Active() (conversationID, site string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeConversation, e.activeSite
}

// Status reports the sync state the overlay's status section displays.
func (e *Engine) Status() StatusResult {
	_, configured := e.config.Current()

	e.mu.Lock()
	defer e.mu.Unlock()

	res := StatusResult{
		Result:         ok(),
		Configured:     configured,
		SyncInProgress: e.syncInProgress,
		ClientID:       e.clientID,
	}
	if !e.lastSyncTime.IsZero() {
		t := e.lastSyncTime
		res.LastSyncTime = &t
	}
	return res
}

// SyncNow runs both reconciliation checks immediately. Failures in one
// do not stop the other; the envelope carries the first failure.
func (e *Engine) SyncNow(ctx context.Context) Result {
	e.mu.Lock()
	e.syncInProgress = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.syncInProgress = false
		e.mu.Unlock()
	}()

	var firstErr error
	if err := e.PollDrafts(ctx); err != nil {
		firstErr = err
	}
	if err := e.PollPositions(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if firstErr != nil {
		return fail(firstErr)
	}
	return ok()
}

// Reset drops all last-observed fingerprints, forcing the next poll to
// treat everything as fresh. Called after reconfiguration.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastDraftFP = make(map[string]string)
	e.lastPosFP = make(map[string]string)
	e.posSeen = make(map[string]bool)
}

func (e *Engine) markSynced() {
	e.mu.Lock()
	e.lastSyncTime = time.Now()
	e.mu.Unlock()
}

func (e *Engine) publish(evt hub.Event) {
	if e.events != nil {
		e.events.Publish(evt)
	}
}
