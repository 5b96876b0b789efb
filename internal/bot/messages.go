package bot

// User-facing replies. Kept in one place so the wording stays consistent
// across handlers.
const (
	msgUnauthorized       = "You are not allowed to generate riddles."
	msgSourceUnavailable  = "Could not fetch a new riddle. Try again later."
	msgNoActiveRiddle     = "There is no active riddle right now."
	msgIncorrect          = "Wrong answer, keep trying!"
	msgAlreadyAnswered    = "You already solved this one."
	msgNoWinnerYet        = "Nobody has solved the riddle yet."
	msgNotTheWinner       = "Only the first winner can register a wallet."
	msgRegistered         = "Wallet registered. The prize is on its way!"
	msgRegistrationFailed = "Could not register the wallet. Try again later."
	msgRiddlePosted       = "Riddle posted to the game chat."
	msgUnknownCommand     = "Unknown command."
	msgRateLimited        = "Slow down a little."
)

// Parameterized replies.
const (
	fmtFirstWinner   = "Correct! %s solved it first and wins the big prize. Claim it with %swal <address>."
	fmtRepeatWinner  = "Correct! %s gets the small prize."
	fmtMissingAnswer = "Send your answer like this: %san <answer>"
	fmtMissingWallet = "Send your wallet like this: %swal <address>"
)
