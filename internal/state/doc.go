// Package state holds popview's application state and the only code allowed
// to change it.
//
// # Overview
//
// The package splits state handling into two parts:
//
//   - Apply: a pure function from (State, Command) to State. No I/O, no
//     clocks beyond LastUpdated, no shared slices.
//   - Store: a mutex-guarded container that runs Apply for each dispatched
//     Command and fans the result out to subscribers.
//
// Side effects (HTTP fetches, storage writes) live in the app package, which
// dispatches commands before and after each effect.
//
// # Commands
//
//	FetchStarted{Seq}            IsLoading=true, Error cleared, Status=Loading
//	FetchSucceeded{Seq, Records} Records replaced, Status=Loaded
//	FetchFailed{Seq, Err}        Error set, Status=Failed, Records kept
//	SelectState{Name}            Selected=Name
//	InitFavorites{List}          Favorites replaced wholesale
//	AddFavorite{Name}            appended only when absent; "" is a no-op
//	RemoveFavorite{Name}         every occurrence removed
//
// # Fetch Lifecycle
//
//	Idle ──FetchStarted──> Loading ──FetchSucceeded──> Loaded
//	                          │
//	                          └──────FetchFailed─────> Failed
//
// Loaded and Failed both accept a new FetchStarted. Every fetch carries a
// sequence number and Apply drops results whose Seq is not the latest
// started one. A FetchStarted with a lower Seq than FetchSeq is dropped too,
// so overlapping requests cannot leave IsLoading or Records describing an
// older request.
//
// # Concurrency Model
//
// Dispatch holds the write lock only while Apply runs and the snapshot is
// copied. Listeners are called afterwards on the dispatching goroutine, each
// with its own copy, so a listener may call Snapshot or Dispatch without
// deadlocking. Two concurrent dispatches may notify out of order; listeners
// that care about the latest state should re-read Snapshot.
//
// # Usage Example
//
//	store := state.NewStore(state.State{})
//	cancel := store.Subscribe(func(s state.State) {
//		render(s)
//	})
//	defer cancel()
//
//	store.Dispatch(state.AddFavorite{Name: "Ohio"})
//	snap := store.Snapshot()
package state
