// 数据库表，与csv数据集一一对应，id自增以保持写入顺序
package schema

import (
	"time"
)

type Article struct {
	ID              uint64    `xorm:"bigint pk autoincr 'id'"`
	Title           string    `xorm:"text notnull 'title'"`
	URL             string    `xorm:"varchar(2048) notnull index 'url'"`
	Text            string    `xorm:"text 'text'"`
	PublicationDate string    `xorm:"varchar(10) notnull 'publication_date'"`
	Author          string    `xorm:"varchar(256) 'author'"`
	Tag             string    `xorm:"varchar(256) 'tag'"`
	CreatedAt       time.Time `xorm:"created notnull 'created_at'"`
}

func (a *Article) TableName() string {
	return "articles"
}

type Author struct {
	ID              uint64    `xorm:"bigint pk autoincr 'id'"`
	FullName        string    `xorm:"varchar(256) notnull index 'full_name'"`
	JobTitle        string    `xorm:"varchar(256) 'job_title'"`
	LinkedIn        string    `xorm:"varchar(2048) 'linkedin'"`
	Contact         string    `xorm:"varchar(2048) 'contact'"`
	ArticlesCounter int       `xorm:"int notnull 'articles_counter'"`
	CreatedAt       time.Time `xorm:"created notnull 'created_at'"`
}

func (a *Author) TableName() string {
	return "authors"
}
