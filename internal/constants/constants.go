package constants

// Centralized constants for env keys, routes and API error strings.
const (
	// Environment variable keys
	EnvSessionSecret       = "SESSION_SECRET"
	EnvConfigPath          = "IRONFORGE_CONFIG"
	EnvDBPath              = "IRONFORGE_DB"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"

	// Session / Cookie names
	CookieSessionName = "if_session"
)

// Routes used by the backend router
const (
	RouteAPIPrefix = "/api"

	RouteAuthLogin   = "/auth/login"
	RouteVersion     = "/version"
	RouteBosses      = "/bosses"
	RouteLeaderboard = "/leaderboard"

	RouteEncounters      = "/encounters"
	RouteEncounterAction = "/encounters/action"
	RouteEncounterFlee   = "/encounters/flee"

	RouteDuels        = "/duels"
	RouteDuelAccept   = "/duels/:duelID/accept"
	RouteDuelDecline  = "/duels/:duelID/decline"
	RouteDuelProgress = "/duels/:duelID/progress"
	RouteDuelAction   = "/duels/:duelID/action"

	RouteRankedOpponent = "/ranked/opponent"
	RouteRankedResult   = "/ranked/result"
	RouteRankedMe       = "/ranked/me"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest = "Invalid request"
	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"

	ErrOpponentNotFound    = "Opponent not found"
	ErrEncounterActive     = "An encounter is already active"
	ErrNoActiveEncounter   = "No active encounter"
	ErrInvalidAction       = "Invalid combat action"
	ErrInvalidTier         = "Unknown difficulty tier"
	ErrInsufficientFunds   = "Insufficient funds"
	ErrFailedStartFight    = "Failed to start encounter"
	ErrFailedResolveAction = "Failed to resolve action"

	ErrDuelNotFound       = "Duel not found"
	ErrDuplicateChallenge = "An unresolved challenge already exists for this pair"
	ErrSelfChallenge      = "Cannot challenge yourself"
	ErrUnknownVariant     = "Unknown duel variant"
	ErrInvalidTarget      = "Invalid duel target"
	ErrNotDefender        = "Only the defender may respond"
	ErrNotPending         = "Duel is not pending"
	ErrDuelNotActive      = "Duel is not active"
	ErrNotAParticipant    = "Not a duel participant"
	ErrInvalidProgress    = "Invalid progress delta"
	ErrFailedDuel         = "Failed to process duel"

	ErrAccountNotFound     = "Account not found"
	ErrSelfMatch           = "Cannot report a match against yourself"
	ErrNoActiveSeason      = "No active season"
	ErrFailedFetchLadder   = "Failed to fetch leaderboard"
	ErrFailedSubmitResult  = "Failed to submit match result"
	ErrFailedFindOpponent  = "Failed to find an opponent"
	ErrFailedFetchBosses   = "Failed to fetch bosses"
	ErrFailedCreateAccount = "Failed to create account"
	ErrUsernameRequired    = "username is required"
)

// Logging field names
const (
	LogFieldAccountID = "account_id"
	LogFieldDuelID    = "duel_id"
	LogFieldAddr      = "addr"
)
