package cli

import (
	"fmt"
	"os"
	"path/filepath"
)

// BashCompletion is the bash completion script for the rxreturn CLI.
const BashCompletion = `#!/bin/bash
# Bash completion for rxreturn CLI

_rxreturn_completion() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main commands
    local commands="signin signup signout refresh whoami dashboard earnings documents inventory deals cart orders optimize packages lists settings subscription completion help"

    # Subcommands
    local documents_cmds="list get delete"
    local inventory_cmds="list metrics update delete"
    local cart_cmds="show add update remove clear checkout"
    local optimize_cmds="recommendations suggest show accept decline"
    local lists_cmds="show create rename delete add-item remove-item to-cart"
    local subscription_cmds="show plans checkout cancel"

    case "${prev}" in
        documents)
            COMPREPLY=( $(compgen -W "${documents_cmds}" -- ${cur}) )
            return 0
            ;;
        inventory)
            COMPREPLY=( $(compgen -W "${inventory_cmds}" -- ${cur}) )
            return 0
            ;;
        cart)
            COMPREPLY=( $(compgen -W "${cart_cmds}" -- ${cur}) )
            return 0
            ;;
        optimize)
            COMPREPLY=( $(compgen -W "${optimize_cmds}" -- ${cur}) )
            return 0
            ;;
        lists)
            COMPREPLY=( $(compgen -W "${lists_cmds}" -- ${cur}) )
            return 0
            ;;
        subscription)
            COMPREPLY=( $(compgen -W "${subscription_cmds}" -- ${cur}) )
            return 0
            ;;
        *)
            COMPREPLY=( $(compgen -W "${commands}" -- ${cur}) )
            return 0
            ;;
    esac
}

complete -F _rxreturn_completion rxreturn
`

// InstallBashCompletion writes the completion script into the user's bash
// completion directory.
func InstallBashCompletion() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}

	dir := filepath.Join(home, ".bash_completion.d")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create completion directory: %w", err)
	}

	path := filepath.Join(dir, "rxreturn")
	if err := os.WriteFile(path, []byte(BashCompletion), 0o644); err != nil {
		return fmt.Errorf("write completion script: %w", err)
	}

	fmt.Printf("Installed bash completion to %s\n", path)
	fmt.Println("Add this to your ~/.bashrc if it is not sourced already:")
	fmt.Printf("  source %s\n", path)
	return nil
}

// PrintBashCompletion writes the completion script to stdout.
func PrintBashCompletion() {
	fmt.Print(BashCompletion)
}
