package cmd

import (
	"fmt"
	"strings"
)

var commandNames = []string{"repl", "add", "ls", "list", "complete", "done", "tui", "init", "doctor", "completion", "version", "help"}

var globalFlags = []string{"-file", "-menu", "-autosave", "-log-level", "-log-format", "-log-timestamps", "-log-caller", "-help", "-version"}

// completionCommand prints a shell completion script.
func (a *app) completionCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tasks completion bash|zsh|fish|powershell")
	}

	var script string
	switch strings.ToLower(args[0]) {
	case "bash":
		script = bashCompletion()
	case "zsh":
		script = zshCompletion()
	case "fish":
		script = fishCompletion()
	case "powershell", "pwsh":
		script = powershellCompletion()
	default:
		return fmt.Errorf("unsupported shell %q (expected bash|zsh|fish|powershell)", args[0])
	}
	fmt.Fprint(a.out, script)
	return nil
}

func bashCompletion() string {
	return fmt.Sprintf(`# tasks bash completion
_tasks() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    case "$prev" in
        -file) COMPREPLY=( $(compgen -f -- "$cur") ); return ;;
        -log-level) COMPREPLY=( $(compgen -W "debug info warn error" -- "$cur") ); return ;;
        -log-format) COMPREPLY=( $(compgen -W "text json logfmt" -- "$cur") ); return ;;
        ls|list) COMPREPLY=( $(compgen -W "all pending done" -- "$cur") ); return ;;
        completion) COMPREPLY=( $(compgen -W "bash zsh fish powershell" -- "$cur") ); return ;;
    esac
    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "%s" -- "$cur") )
    else
        COMPREPLY=( $(compgen -W "%s" -- "$cur") )
    fi
}
complete -F _tasks tasks
`, strings.Join(globalFlags, " "), strings.Join(commandNames, " "))
}

func zshCompletion() string {
	return fmt.Sprintf(`#compdef tasks
# tasks zsh completion
_tasks() {
    local -a commands flags
    commands=(%s)
    flags=(%s)
    if [[ "$words[CURRENT]" == -* ]]; then
        compadd -- $flags
    else
        compadd -- $commands
    fi
}
compdef _tasks tasks
`, strings.Join(commandNames, " "), strings.Join(globalFlags, " "))
}

func fishCompletion() string {
	var b strings.Builder
	b.WriteString("# tasks fish completion\n")
	b.WriteString("complete -c tasks -f\n")
	for _, name := range commandNames {
		fmt.Fprintf(&b, "complete -c tasks -n '__fish_use_subcommand' -a %s\n", name)
	}
	for _, flag := range globalFlags {
		fmt.Fprintf(&b, "complete -c tasks -o %s\n", strings.TrimPrefix(flag, "-"))
	}
	b.WriteString("complete -c tasks -n '__fish_seen_subcommand_from ls list' -a 'all pending done'\n")
	b.WriteString("complete -c tasks -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish powershell'\n")
	return b.String()
}

func powershellCompletion() string {
	quote := func(items []string) string {
		quoted := make([]string, len(items))
		for i, item := range items {
			quoted[i] = "'" + item + "'"
		}
		return strings.Join(quoted, ", ")
	}
	return fmt.Sprintf(`# tasks PowerShell completion
Register-ArgumentCompleter -Native -CommandName tasks -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)
    $commands = @(%s)
    $flags = @(%s)
    $candidates = if ($wordToComplete -like '-*') { $flags } else { $commands }
    $candidates | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
    }
}
`, quote(commandNames), quote(globalFlags))
}
