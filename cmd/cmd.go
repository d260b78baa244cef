package cmd

// 借助cobra库定义命令行界面，crawl子命令跑一轮抓取，version子命令打印版本信息

import (
	"github.com/spf13/cobra"

	"github.com/dszqbsm/newscrawler/cmd/crawl"
	"github.com/dszqbsm/newscrawler/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version.",
	Long:  "print version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version.Printer()
	},
}

func Execute() {
	var rootCmd = &cobra.Command{Use: "newscrawler"} // 仅用于组织和挂载子命令
	rootCmd.AddCommand(crawl.CrawlCmd, versionCmd)
	rootCmd.Execute()
}
