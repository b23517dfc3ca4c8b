package main

import (
	"fmt"
	"io"
)

func runCompletion(args []string, out io.Writer) error {
	shell := "bash"
	if len(args) > 0 && args[0] != "" {
		shell = args[0]
	}
	switch shell {
	case "bash":
		_, err := fmt.Fprint(out, bashCompletion)
		return err
	case "zsh":
		_, err := fmt.Fprint(out, zshCompletion)
		return err
	default:
		return fmt.Errorf("unsupported shell: %s (use bash or zsh)", shell)
	}
}

const bashCompletion = `
_curriculum_cli_completions()
{
    local cur prev
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "mcq projects history detail login logout whoami ping config completion" -- "$cur") )
        return 0
    fi
    case "$prev" in
        --format)
            COMPREPLY=( $(compgen -W "html text ansi" -- "$cur") )
            return 0
            ;;
    esac
}
complete -F _curriculum_cli_completions curriculum-cli
`

const zshCompletion = `
#compdef curriculum-cli
_curriculum_cli() {
  local -a subcmds
  subcmds=('mcq:generate multiple-choice questions' 'projects:generate project ideas' 'history:list previous requests' 'detail:show the PDF of a request' 'login:store a token' 'logout:forget the token' 'whoami:show the signed-in user' 'ping:check the service' 'config:inspect or persist settings' 'completion:print shell completions')
  _describe 'command' subcmds
}
compdef _curriculum_cli curriculum-cli
`
