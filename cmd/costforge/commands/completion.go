package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate completion script",
	Long: `To load completions:

Bash:
  $ source <(costforge completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ costforge completion bash > /etc/bash_completion.d/costforge
  # macOS:
  $ costforge completion bash > /usr/local/etc/bash_completion.d/costforge

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ costforge completion zsh > "${fpath[1]}/_costforge"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ costforge completion fish | source

  # To load completions for each session, execute once:
  $ costforge completion fish > ~/.config/fish/completions/costforge.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			fmt.Print(humanBashCompletion)
		case "zsh":
			rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			rootCmd.GenPowerShellCompletion(os.Stdout)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// humanBashCompletion is a handcrafted, minimal bash completion script
// that avoids the robotic verbosity of auto-generated ones.
const humanBashCompletion = `
# costforge bash completion

_costforge_completion() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="init inspect audit policy update completion help"

    case "${prev}" in
        init)
            COMPREPLY=( $(compgen -W "--force --output --environment --yes --help" -- ${cur}) )
            return 0
            ;;
        inspect)
            COMPREPLY=( $(compgen -W "--format --help" -- ${cur}) )
            return 0
            ;;
        audit)
             COMPREPLY=( $(compgen -W "--region --help" -- ${cur}) )
             return 0
             ;;
        policy)
             COMPREPLY=( $(compgen -W "lint --help" -- ${cur}) )
             return 0
             ;;
        completion)
             COMPREPLY=( $(compgen -W "bash zsh fish powershell" -- ${cur}) )
             return 0
             ;;
        --environment)
             COMPREPLY=( $(compgen -W "dev staging prod" -- ${cur}) )
             return 0
             ;;
        --format)
             COMPREPLY=( $(compgen -W "text json yaml csv" -- ${cur}) )
             return 0
             ;;
        --region)
             # Common regions
             local regions="us-east-1 us-east-2 us-west-1 us-west-2 eu-central-1 eu-west-1 ap-southeast-1"
             COMPREPLY=( $(compgen -W "${regions}" -- ${cur}) )
             return 0
             ;;
        *)
            ;;
    esac

    # Global Flags
    if [[ ${cur} == -* ]] ; then
        COMPREPLY=( $(compgen -W "--help --version --region --config --log-level --no-color --yes" -- ${cur}) )
        return 0
    fi

    # Subcommands
    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
}

complete -F _costforge_completion costforge
`
