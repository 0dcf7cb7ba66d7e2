package match

import (
	"time"

	"github.com/ParthMakwana-13/stumps/internal/team"
	"github.com/ParthMakwana-13/stumps/internal/tournament"
	"github.com/ParthMakwana-13/stumps/internal/user"
	"github.com/ParthMakwana-13/stumps/internal/venue"
	"gorm.io/gorm"
)

type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusLive      MatchStatus = "live"
	StatusPaused    MatchStatus = "paused"
	StatusDelayed   MatchStatus = "delayed"
	StatusCompleted MatchStatus = "completed"
	StatusAbandoned MatchStatus = "abandoned"
)

type BallType string

const (
	BallRegular BallType = "regular"
	BallWide    BallType = "wide"
	BallNoBall  BallType = "noball"
	BallLegBye  BallType = "legbye"
	BallBye     BallType = "bye"
)

type WicketType string

const (
	WicketBowled    WicketType = "bowled"
	WicketCaught    WicketType = "caught"
	WicketLBW       WicketType = "lbw"
	WicketRunOut    WicketType = "runout"
	WicketStumped   WicketType = "stumped"
	WicketHitWicket WicketType = "hitwicket"
	WicketRetired   WicketType = "retired"
)

// Toss decisions
const (
	DecisionBatting = "batting"
	DecisionBowling = "bowling"
)

// Slots a knockout winner can be advanced into.
const (
	SlotTeamA = "team_a"
	SlotTeamB = "team_b"
)

// Ball is one delivery in an innings ledger. Once appended it is immutable
// except for its fielding annotations; only the last ball of an innings can
// be removed.
type Ball struct {
	ID         uint     `json:"id"`
	OverNumber int      `json:"over_number"`
	BallNumber int      `json:"ball_number"`
	BallType   BallType `json:"ball_type"`

	// Runs is the batter's contribution as entered by the scorer;
	// TotalRuns is the signed delta actually applied to the team score
	// (runs + extras + bonus, negated for corrections).
	Runs           int  `json:"runs"`
	ExtraRuns      int  `json:"extra_runs,omitempty"`
	BonusRuns      int  `json:"bonus_runs,omitempty"`
	IsNegativeRuns bool `json:"is_negative_runs,omitempty"`
	TotalRuns      int  `json:"total_runs"`

	IsBoundary bool `json:"is_boundary,omitempty"`
	IsExtra    bool `json:"is_extra,omitempty"`

	IsWicket    bool       `json:"is_wicket,omitempty"`
	WicketType  WicketType `json:"wicket_type,omitempty"`
	PlayerOutID uint       `json:"player_out_id,omitempty"`

	StrikerID uint `json:"striker_id"`
	BowlerID  uint `json:"bowler_id"`

	FielderID         uint   `json:"fielder_id,omitempty"`
	RunsSaved         int    `json:"runs_saved,omitempty"`
	RunsMissed        int    `json:"runs_missed,omitempty"`
	CatchMissed       bool   `json:"catch_missed,omitempty"`
	FieldingHighlight string `json:"fielding_highlight,omitempty"`

	Commentary string    `json:"commentary"`
	Timestamp  time.Time `json:"timestamp"`
}

// IsLegalDelivery reports whether the ball consumes one of the six legal
// deliveries of an over.
func (b *Ball) IsLegalDelivery() bool {
	return b.BallType == BallRegular || b.BallType == BallLegBye || b.BallType == BallBye
}

// HistoryLog is a signed manual run correction applied to an innings total
// outside the ball ledger. The innings total equals the ledger sum plus the
// signed sum of these entries.
type HistoryLog struct {
	BallID    uint      `json:"ball_id,omitempty"`
	Runs      int       `json:"runs"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PlayerReplacement logs a mid-innings substitution.
type PlayerReplacement struct {
	OriginalPlayerID    uint      `json:"original_player_id"`
	ReplacementPlayerID uint      `json:"replacement_player_id"`
	Role                string    `json:"role,omitempty"`
	Reason              string    `json:"reason,omitempty"`
	Timestamp           time.Time `json:"timestamp"`
}

// DeclarationInfo marks an innings closed by the batting side.
type DeclarationInfo struct {
	DeclaredAt time.Time `json:"declared_at"`
	Commentary string    `json:"commentary,omitempty"`
}

// OversReductionInfo marks an innings force-completed by an overs reduction.
type OversReductionInfo struct {
	ReducedTo  float64   `json:"reduced_to"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Innings aggregates one team's batting turn. It lives as a JSONB column on
// the match row, so every scoring mutation is a single-row write.
type Innings struct {
	BattingTeamID uint `json:"batting_team_id,omitempty"`
	BowlingTeamID uint `json:"bowling_team_id,omitempty"`

	TotalRuns int     `json:"total_runs"`
	Wickets   int     `json:"wickets"`
	Overs     float64 `json:"overs"`

	CurrentStrikerID    uint `json:"current_striker_id,omitempty"`
	CurrentNonStrikerID uint `json:"current_non_striker_id,omitempty"`
	CurrentBowlerID     uint `json:"current_bowler_id,omitempty"`
	CurrentKeeperID     uint `json:"current_keeper_id,omitempty"`

	Balls              []Ball              `json:"balls"`
	HistoryLogs        []HistoryLog        `json:"history_logs,omitempty"`
	PlayerReplacements []PlayerReplacement `json:"player_replacements,omitempty"`

	IsComplete  bool `json:"is_complete"`
	IsFinalOver bool `json:"is_final_over"`

	DeclarationInfo    *DeclarationInfo    `json:"declaration_info,omitempty"`
	OversReductionInfo *OversReductionInfo `json:"overs_reduction_info,omitempty"`

	// NextBallID hands out ledger entry ids; never reused, even after undo.
	NextBallID uint `json:"next_ball_id"`
}

// DLSInfo is the rain-rule override for the chasing side.
type DLSInfo struct {
	IsApplied     bool      `json:"is_applied"`
	RevisedTarget int       `json:"revised_target"`
	RevisedOvers  float64   `json:"revised_overs,omitempty"`
	AppliedAt     time.Time `json:"applied_at"`
}

// OversChange is one entry in the append-only overs revision history.
// PreviousOvers chains from the prior entry's NewOvers.
type OversChange struct {
	PreviousOvers float64   `json:"previous_overs"`
	NewOvers      float64   `json:"new_overs"`
	Reason        string    `json:"reason,omitempty"`
	Commentary    string    `json:"commentary,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// AbandonInfo records why a match was abandoned.
type AbandonInfo struct {
	Reason      string    `json:"reason"`
	Commentary  string    `json:"commentary,omitempty"`
	AbandonedAt time.Time `json:"abandoned_at"`
}

// Match is the scoring aggregate. Team references are nullable until a
// prior knockout stage resolves them via the advance-winner operation.
type Match struct {
	gorm.Model
	TournamentID uint                   `json:"tournament_id" gorm:"index;not null"`
	Tournament   *tournament.Tournament `json:"tournament,omitempty" gorm:"foreignKey:TournamentID"`
	VenueID      *uint                  `json:"venue_id,omitempty" gorm:"index"`
	Venue        *venue.Ground          `json:"venue,omitempty" gorm:"foreignKey:VenueID"`

	TeamAID *uint      `json:"team_a_id,omitempty" gorm:"index"`
	TeamA   *team.Team `json:"team_a,omitempty" gorm:"foreignKey:TeamAID"`
	TeamBID *uint      `json:"team_b_id,omitempty" gorm:"index"`
	TeamB   *team.Team `json:"team_b,omitempty" gorm:"foreignKey:TeamBID"`

	ScheduledAt time.Time   `json:"scheduled_at" gorm:"index"`
	Status      MatchStatus `json:"status" gorm:"index;default:'scheduled'"`

	TossWinnerID *uint  `json:"toss_winner_id,omitempty" gorm:"index"`
	TossDecision string `json:"toss_decision,omitempty"`

	FirstInnings  *Innings `json:"first_innings,omitempty" gorm:"serializer:json;type:jsonb"`
	SecondInnings *Innings `json:"second_innings,omitempty" gorm:"serializer:json;type:jsonb"`

	WinnerTeamID *uint  `json:"winner_team_id,omitempty" gorm:"index"`
	ResultMargin string `json:"result_margin,omitempty"`

	DLS                    *DLSInfo      `json:"dls,omitempty" gorm:"serializer:json;type:jsonb"`
	CurrentOversPerInnings *float64      `json:"current_overs_per_innings,omitempty"`
	OversChangeHistory     []OversChange `json:"overs_change_history,omitempty" gorm:"serializer:json;type:jsonb"`
	AbandonInfo            *AbandonInfo  `json:"abandon_info,omitempty" gorm:"serializer:json;type:jsonb"`

	Umpires []user.User `json:"umpires,omitempty" gorm:"many2many:match_umpires"`

	// Knockout linkage: the winner advances into NextMatchSlot of NextMatchID.
	NextMatchID   *uint  `json:"next_match_id,omitempty" gorm:"index"`
	NextMatchSlot string `json:"next_match_slot,omitempty"`
}

// InningsByNumber returns the first or second innings, creating it lazily.
func (m *Match) InningsByNumber(n int) *Innings {
	switch n {
	case 1:
		if m.FirstInnings == nil {
			m.FirstInnings = &Innings{Balls: []Ball{}}
		}
		return m.FirstInnings
	case 2:
		if m.SecondInnings == nil {
			m.SecondInnings = &Innings{Balls: []Ball{}}
		}
		return m.SecondInnings
	default:
		return nil
	}
}

// MaxOvers is the completion threshold for an innings: the revised value if
// overs were changed mid-match, else the tournament format.
func (m *Match) MaxOvers() float64 {
	if m.CurrentOversPerInnings != nil {
		return *m.CurrentOversPerInnings
	}
	if m.Tournament != nil {
		return m.Tournament.OversPerInnings
	}
	return 0
}
