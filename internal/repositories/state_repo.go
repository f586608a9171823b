package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/models"
	"github.com/leadscout/backend/internal/store"
)

// StateRepo owns the canonical collections. It fronts the blob store with an
// in-process cache guarded by a mutex; every mutation updates the cache and
// writes through. Mutations that touch several collections (ingestion,
// campaign deletion, data clear) commit the cache only after the writes
// succeed, so callers never observe half-updated state.
type StateRepo struct {
	store store.Store
	log   *zap.Logger

	mu        sync.Mutex
	campaigns []models.Campaign
	posts     []models.Post
	usage     models.Usage
	comments  map[int][]string
	settings  models.Settings
}

// StateDump is the full-state export shape.
type StateDump struct {
	Campaigns []models.Campaign `json:"campaigns"`
	Posts     []models.Post     `json:"posts"`
	Usage     models.Usage      `json:"usage"`
	Comments  map[int][]string  `json:"comments"`
	Settings  models.Settings   `json:"settings"`
}

// NewStateRepo loads every collection from the store. A missing or unreadable
// blob falls back to its default — storage read failures are never fatal.
func NewStateRepo(ctx context.Context, st store.Store, log *zap.Logger) *StateRepo {
	r := &StateRepo{
		store:    st,
		log:      log,
		comments: make(map[int][]string),
		settings: models.DefaultSettings(),
	}
	r.loadOrDefault(ctx, store.KeyCampaigns, &r.campaigns)
	r.loadOrDefault(ctx, store.KeyPosts, &r.posts)
	r.loadOrDefault(ctx, store.KeyUsage, &r.usage)
	r.loadOrDefault(ctx, store.KeyComments, &r.comments)
	r.loadOrDefault(ctx, store.KeySettings, &r.settings)
	return r
}

func (r *StateRepo) loadOrDefault(ctx context.Context, key string, dest any) {
	if _, err := r.store.Load(ctx, key, dest); err != nil {
		r.log.Warn("failed to load collection, using default",
			zap.String("key", key), zap.Error(err))
	}
}

// Campaigns returns a copy of all campaigns, newest first.
func (r *StateRepo) Campaigns() []models.Campaign {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Campaign, len(r.campaigns))
	copy(out, r.campaigns)
	return out
}

func (r *StateRepo) Campaign(id int) (models.Campaign, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.campaigns {
		if c.ID == id {
			return c, true
		}
	}
	return models.Campaign{}, false
}

// Posts returns the posts belonging to one campaign.
func (r *StateRepo) Posts(campaignID int) []models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, p := range r.posts {
		if p.CampaignID == campaignID {
			out = append(out, p)
		}
	}
	return out
}

func (r *StateRepo) Post(id int) (models.Post, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

func (r *StateRepo) Usage() models.Usage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.usage
}

func (r *StateRepo) Settings() models.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings
}

func (r *StateRepo) SaveSettings(ctx context.Context, s models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.Save(ctx, store.KeySettings, s); err != nil {
		return err
	}
	r.settings = s
	return nil
}

// NextCampaignID returns one past the highest campaign identifier ever used.
func (r *StateRepo) NextCampaignID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, c := range r.campaigns {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

// MaxPostID returns the highest post identifier across the whole store.
func (r *StateRepo) MaxPostID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, p := range r.posts {
		if p.ID > max {
			max = p.ID
		}
	}
	return max
}

// ExistingURLs returns the canonical URL set already present for a campaign.
func (r *StateRepo) ExistingURLs(campaignID int) map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	urls := make(map[string]bool)
	for _, p := range r.posts {
		if p.CampaignID == campaignID {
			urls[p.URL] = true
		}
	}
	return urls
}

// ApplyCreate commits a campaign's first successful ingestion pass: campaign
// record, its posts and the usage counter land together. The campaign is
// never persisted before this point.
func (r *StateRepo) ApplyCreate(ctx context.Context, campaign models.Campaign, posts []models.Post, highPotential int) (models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	campaign.CreatedAt = now
	campaign.LastRefreshed = &now
	campaign.LeadsFound = len(posts)
	campaign.HighPotential = highPotential
	campaign.Contacted = 0
	if campaign.Status == "" {
		campaign.Status = models.CampaignStatusActive
	}

	campaigns := append(cloneCampaigns(r.campaigns), campaign)
	allPosts := append(clonePosts(r.posts), posts...)
	usage := r.usage
	usage.CampaignsCreated = len(campaigns)

	if err := r.saveCollections(ctx, campaigns, allPosts, usage); err != nil {
		return models.Campaign{}, err
	}
	r.campaigns, r.posts, r.usage = campaigns, allPosts, usage
	return campaign, nil
}

// ApplyRefresh commits a refresh pass: new posts are appended, the owning
// campaign's counters absorb the deltas and the refresh counter advances. A
// zero-result refresh still advances LastRefreshed and the refresh counter,
// but leaves the lead counters untouched.
func (r *StateRepo) ApplyRefresh(ctx context.Context, campaignID int, posts []models.Post, highPotential int) (models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	campaigns := cloneCampaigns(r.campaigns)
	idx := -1
	for i, c := range campaigns {
		if c.ID == campaignID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Campaign{}, fmt.Errorf("campaign %d not found", campaignID)
	}

	now := time.Now().UTC()
	campaigns[idx].LastRefreshed = &now
	campaigns[idx].LeadsFound += len(posts)
	campaigns[idx].HighPotential += highPotential

	allPosts := append(clonePosts(r.posts), posts...)
	usage := r.usage
	usage.RefreshesUsed++

	if err := r.saveCollections(ctx, campaigns, allPosts, usage); err != nil {
		return models.Campaign{}, err
	}
	r.campaigns, r.posts, r.usage = campaigns, allPosts, usage
	return campaigns[idx], nil
}

// SetCampaignStatus flips a campaign between active and paused.
func (r *StateRepo) SetCampaignStatus(ctx context.Context, campaignID int, status string) (models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	campaigns := cloneCampaigns(r.campaigns)
	for i := range campaigns {
		if campaigns[i].ID != campaignID {
			continue
		}
		campaigns[i].Status = status
		if err := r.store.Save(ctx, store.KeyCampaigns, campaigns); err != nil {
			return models.Campaign{}, err
		}
		r.campaigns = campaigns
		return campaigns[i], nil
	}
	return models.Campaign{}, fmt.Errorf("campaign %d not found", campaignID)
}

// DeleteCampaign removes a campaign together with all its posts and their
// comment history, and resyncs the campaigns counter to the live count so
// deletion frees creation quota.
func (r *StateRepo) DeleteCampaign(ctx context.Context, campaignID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	campaigns := make([]models.Campaign, 0, len(r.campaigns))
	found := false
	for _, c := range r.campaigns {
		if c.ID == campaignID {
			found = true
			continue
		}
		campaigns = append(campaigns, c)
	}
	if !found {
		return fmt.Errorf("campaign %d not found", campaignID)
	}

	posts := make([]models.Post, 0, len(r.posts))
	comments := cloneComments(r.comments)
	for _, p := range r.posts {
		if p.CampaignID == campaignID {
			delete(comments, p.ID)
			continue
		}
		posts = append(posts, p)
	}

	usage := r.usage
	usage.CampaignsCreated = len(campaigns)

	if err := r.saveCollections(ctx, campaigns, posts, usage); err != nil {
		return err
	}
	if err := r.store.Save(ctx, store.KeyComments, comments); err != nil {
		return err
	}
	r.campaigns, r.posts, r.usage, r.comments = campaigns, posts, usage, comments
	return nil
}

// MarkContacted transitions a post to contacted. Idempotent: only the first
// transition increments the owning campaign's contacted counter.
func (r *StateRepo) MarkContacted(ctx context.Context, postID int) (models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts := clonePosts(r.posts)
	idx := -1
	for i, p := range posts {
		if p.ID == postID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Post{}, fmt.Errorf("post %d not found", postID)
	}
	if posts[idx].Status == models.PostStatusContacted {
		return posts[idx], nil
	}
	posts[idx].Status = models.PostStatusContacted

	campaigns := cloneCampaigns(r.campaigns)
	for i := range campaigns {
		if campaigns[i].ID == posts[idx].CampaignID {
			campaigns[i].Contacted++
			break
		}
	}

	if err := r.saveCollections(ctx, campaigns, posts, r.usage); err != nil {
		return models.Post{}, err
	}
	r.campaigns, r.posts = campaigns, posts
	return posts[idx], nil
}

// HidePost marks a post hidden. Lead counters stay untouched: hiding never
// lowers them.
func (r *StateRepo) HidePost(ctx context.Context, postID int) (models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts := clonePosts(r.posts)
	for i := range posts {
		if posts[i].ID != postID {
			continue
		}
		posts[i].Status = models.PostStatusHidden
		if err := r.store.Save(ctx, store.KeyPosts, posts); err != nil {
			return models.Post{}, err
		}
		r.posts = posts
		return posts[i], nil
	}
	return models.Post{}, fmt.Errorf("post %d not found", postID)
}

// SetAuthorSummary caches a summary on first write; once set it is never
// overwritten.
func (r *StateRepo) SetAuthorSummary(ctx context.Context, postID int, summary string) (models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts := clonePosts(r.posts)
	for i := range posts {
		if posts[i].ID != postID {
			continue
		}
		if posts[i].AuthorSummary != "" {
			return posts[i], nil
		}
		posts[i].AuthorSummary = summary
		if err := r.store.Save(ctx, store.KeyPosts, posts); err != nil {
			return models.Post{}, err
		}
		r.posts = posts
		return posts[i], nil
	}
	return models.Post{}, fmt.Errorf("post %d not found", postID)
}

// AppendComment records an outreach comment for a post: newest first, exact
// duplicates dropped, at most models.MaxCommentHistory entries kept.
func (r *StateRepo) AppendComment(ctx context.Context, postID int, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.comments[postID]
	for _, c := range history {
		if c == text {
			return nil
		}
	}
	updated := append([]string{text}, history...)
	if len(updated) > models.MaxCommentHistory {
		updated = updated[:models.MaxCommentHistory]
	}

	comments := cloneComments(r.comments)
	comments[postID] = updated
	if err := r.store.Save(ctx, store.KeyComments, comments); err != nil {
		return err
	}
	r.comments = comments
	return nil
}

func (r *StateRepo) Comments(postID int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	history := r.comments[postID]
	out := make([]string, len(history))
	copy(out, history)
	return out
}

// IncrementGenerations advances the AI-generation counter.
func (r *StateRepo) IncrementGenerations(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	usage := r.usage
	usage.GenerationsUsed++
	if err := r.store.Save(ctx, store.KeyUsage, usage); err != nil {
		return err
	}
	r.usage = usage
	return nil
}

// Clear wipes everything, quota counters included. The only way refresh and
// generation quota ever resets.
func (r *StateRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.Reset(ctx); err != nil {
		return err
	}
	r.campaigns = nil
	r.posts = nil
	r.usage = models.Usage{}
	r.comments = make(map[int][]string)
	r.settings = models.DefaultSettings()
	return nil
}

// Dump snapshots the full state for export.
func (r *StateRepo) Dump() StateDump {
	r.mu.Lock()
	defer r.mu.Unlock()
	return StateDump{
		Campaigns: cloneCampaigns(r.campaigns),
		Posts:     clonePosts(r.posts),
		Usage:     r.usage,
		Comments:  cloneComments(r.comments),
		Settings:  r.settings,
	}
}

func (r *StateRepo) saveCollections(ctx context.Context, campaigns []models.Campaign, posts []models.Post, usage models.Usage) error {
	if err := r.store.Save(ctx, store.KeyCampaigns, campaigns); err != nil {
		return err
	}
	if err := r.store.Save(ctx, store.KeyPosts, posts); err != nil {
		return err
	}
	return r.store.Save(ctx, store.KeyUsage, usage)
}

func cloneCampaigns(in []models.Campaign) []models.Campaign {
	out := make([]models.Campaign, len(in))
	copy(out, in)
	return out
}

func clonePosts(in []models.Post) []models.Post {
	out := make([]models.Post, len(in))
	copy(out, in)
	return out
}

func cloneComments(in map[int][]string) map[int][]string {
	out := make(map[int][]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
