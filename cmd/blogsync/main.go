package main

import (
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/andrewyi/blogsync/src/server"
)

func main() {

	app := cli.NewApp()

	app.Name = "blogsync"
	app.Version = "0.1.0"
	app.Usage = "blog文章与作者的抓取和增量同步"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config,c",
			Usage: "配置文件",
			Value: "./config.yaml",
		},
	}

	s := server.NewServer()
	app.Commands = []cli.Command{
		{
			Name:   "sync",
			Usage:  "数据集为空时全量抓取，否则增量同步",
			Action: s.Sync,
			Flags: []cli.Flag{
				cli.UintFlag{
					Name:  "interval,i",
					Usage: "同步间隔（秒），0表示只运行一次",
				},
			},
		},
		{
			Name:   "crawl",
			Usage:  "全量抓取，要求articles数据集为空",
			Action: s.Crawl,
		},
		{
			Name:   "check",
			Usage:  "增量同步，要求已有数据",
			Action: s.Check,
		},
		{
			Name:   "report",
			Usage:  "输出作者、文章与tag的top-n统计",
			Action: s.Report,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "top,n",
					Usage: "每项统计的条目数",
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
