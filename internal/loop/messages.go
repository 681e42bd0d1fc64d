package loop

// User-facing text printed by the loop.
const (
	msgWelcome      = "✨ Welcome to Task Manager!"
	msgCommands     = "Commands: add, list, complete, quit"
	msgPrompt       = "> "
	msgGoodbye      = "👋 Goodbye!"
	msgNoTasks      = "📝 No tasks yet. Add one with 'add <task>'"
	msgTaskHeader   = "📋 Your Tasks:"
	msgEmptyDesc    = "❌ Task description cannot be empty"
	msgDelimInDesc  = "❌ Task description cannot contain '|'"
	msgInvalidID    = "❌ Invalid task ID"
	msgUnknown      = "❓ Unknown command. Try: add, list, complete, quit"
	msgAskDesc      = "Task description: "
	msgAskID        = "Task ID: "
	fmtAdded        = "✅ Task %d added!\n"
	fmtCompleted    = "🎉 Task %d completed!\n"
	fmtNotFound     = "❌ Task %d not found\n"
	fmtReadFailed   = "⚠️  Could not read input: %v\n"
	fmtSaveFailed   = "⚠️  Could not save tasks: %v\n"
	msgMenu         = "1) Add task\n2) List tasks\n3) Complete task\n4) Save and exit"
	msgHelpCommands = `add <task>       Add a task
list             List tasks (alias: ls)
complete <id>    Mark a task complete (alias: done)
quit             Save and exit (aliases: exit, q)
help             Show this help`
)
