package domain

// Session is the in-memory record of the current authentication status.
// IsAuthenticated implies User != nil for every state Reduce can produce.
type Session struct {
	User            *User
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// InitialSession is the state at application start: loading, nobody signed in.
func InitialSession() Session {
	return Session{IsLoading: true}
}

// TransitionKind enumerates the session state machine transitions.
type TransitionKind int

const (
	TransitionStart TransitionKind = iota + 1
	TransitionSuccess
	TransitionError
	TransitionLogout
	TransitionClearError
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionStart:
		return "START"
	case TransitionSuccess:
		return "SUCCESS"
	case TransitionError:
		return "ERROR"
	case TransitionLogout:
		return "LOGOUT"
	case TransitionClearError:
		return "CLEAR_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Transition is a tagged union: User is read only by SUCCESS, Message only by ERROR.
type Transition struct {
	Kind    TransitionKind
	User    *User
	Message string
}

func Start() Transition                 { return Transition{Kind: TransitionStart} }
func Success(u *User) Transition        { return Transition{Kind: TransitionSuccess, User: u} }
func Failure(message string) Transition { return Transition{Kind: TransitionError, Message: message} }
func Logout() Transition                { return Transition{Kind: TransitionLogout} }
func ClearError() Transition            { return Transition{Kind: TransitionClearError} }

// Reduce folds t over s. It is pure; unknown kinds leave s unchanged.
//
//	START        isLoading=true, error cleared, user/auth kept
//	SUCCESS      user set, authenticated, not loading, no error
//	ERROR        user cleared, unauthenticated, not loading, error=message
//	LOGOUT       user cleared, unauthenticated, not loading, no error
//	CLEAR_ERROR  error cleared
func Reduce(s Session, t Transition) Session {
	switch t.Kind {
	case TransitionStart:
		s.IsLoading = true
		s.Error = ""
	case TransitionSuccess:
		if t.User == nil {
			// A success without a profile cannot satisfy the authenticated invariant.
			return Session{Error: ErrMissingUser.Error()}
		}
		u := *t.User
		return Session{User: &u, IsAuthenticated: true}
	case TransitionError:
		return Session{Error: t.Message}
	case TransitionLogout:
		return Session{}
	case TransitionClearError:
		s.Error = ""
	}
	return s
}
