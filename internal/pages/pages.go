// Package pages хранит статические таблицы для проверки футера: адреса страниц,
// локаторы и наборы элементов, ожидаемые на каждой странице.
package pages

import (
	"fmt"
	"slices"

	"footerCheck/internal/browser"
)

const (
	BaseURL     = "https://only.digital"
	ProjectsURL = BaseURL + "/projects"
	ContactsURL = BaseURL + "/contacts"
	CompanyURL  = BaseURL + "/company"
	FieldsURL   = BaseURL + "/fields"
	BlogURL     = BaseURL + "/blog"
	JobURL      = BaseURL + "/job"
)

var (
	Footer             = browser.CSS("FOOTER", "footer[class^='Footer']")
	Copyrights         = browser.CSS("COPYRIGHTS", "footer > div[class*='copyrights']")
	StartProjectButton = browser.CSS("STARTPROJECTBUTTON", "footer button[class*='StartProject']")
	CompanyLogo        = browser.CSS("COMPANYLOGO", "footer svg[class*='logo']")
	BehanceButton      = browser.CSS("BEHANCEBUTTON", "footer a[href*='behance']")
	DprofileButton     = browser.CSS("DPROFILEBUTTON", "footer a[href*='dprofile']")
	TelegramButton     = browser.CSS("TELEGRAMBUTTON", "footer a[href*='t.me']")
	VKButton           = browser.CSS("VKBUTTON", "footer a[href*='vk.com']")
	TelegramContact    = browser.CSS("TELEGRAMCONTACT", "footer div[class^='Telegram']")
	ContactsLinks      = browser.CSS("CONTACTSLINKS", "footer div[class^='ContactsLinks']")
	FooterText         = browser.CSS("FOOTERTEXT", "footer p[class^='text2']")
	OkCookieButton     = browser.CSS("OKCOOKIEBUTTON", "button[class*='Cookie']")
)

// Catalog - набор данных, на котором работает движок проверок. Только для чтения.
type Catalog struct {
	Pages       []string          `yaml:"pages"`
	Footer      browser.Locator   `yaml:"footer"`
	Consent     browser.Locator   `yaml:"consent"`
	Default     []browser.Locator `yaml:"default"`
	Special     []browser.Locator `yaml:"special"`
	SpecialURLs []string          `yaml:"special_urls"`
}

func Default() *Catalog {
	return &Catalog{
		Pages: []string{
			BaseURL,
			ProjectsURL,
			ContactsURL,
			CompanyURL,
			FieldsURL,
			BlogURL,
			JobURL,
		},
		Footer:  Footer,
		Consent: OkCookieButton,
		Default: []browser.Locator{
			CompanyLogo,
			StartProjectButton,
			TelegramContact,
			ContactsLinks,
			FooterText,
			Copyrights,
			BehanceButton,
			DprofileButton,
			TelegramButton,
			VKButton,
		},
		Special: []browser.Locator{
			Copyrights, BehanceButton, DprofileButton, TelegramButton, VKButton,
		},
		SpecialURLs: []string{JobURL, ContactsURL},
	}
}

// ElementsFor выбирает набор элементов футера для страницы. Сравнение URL точное.
func (c *Catalog) ElementsFor(url string) []browser.Locator {
	if slices.Contains(c.SpecialURLs, url) {
		return c.Special
	}
	return c.Default
}

// IsSpecial сообщает, использует ли страница сокращенный набор.
func (c *Catalog) IsSpecial(url string) bool {
	return slices.Contains(c.SpecialURLs, url)
}

func (c *Catalog) Validate() error {
	if len(c.Pages) == 0 {
		return fmt.Errorf("список страниц пуст")
	}
	if len(c.Default) == 0 || len(c.Special) == 0 {
		return fmt.Errorf("наборы элементов футера не могут быть пустыми")
	}
	all := append([]browser.Locator{c.Footer, c.Consent}, c.Default...)
	all = append(all, c.Special...)
	for _, loc := range all {
		if err := loc.Validate(); err != nil {
			return err
		}
	}
	return nil
}
